package xml2xlsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFont(t *testing.T) {
	font, err := buildFont("size: 10; bold: True; color: FF0000")
	require.NoError(t, err)
	assert.Equal(t, 10.0, font.Size)
	assert.True(t, font.Bold)
	assert.Equal(t, "FF0000", font.Color)
}

func TestBuildFont_Name(t *testing.T) {
	font, err := buildFont("name: Arial; italic: true")
	require.NoError(t, err)
	assert.Equal(t, "Arial", font.Family)
	assert.True(t, font.Italic)
}

func TestBuildFont_UnknownKey(t *testing.T) {
	_, err := buildFont("size: 10; shadow: true")
	assert.Error(t, err)
}

func TestBuildFont_WrongType(t *testing.T) {
	_, err := buildFont("bold: 12")
	assert.Error(t, err)
}

func TestBuildAlignment(t *testing.T) {
	align, err := buildAlignment("horizontal: general; vertical: center; wrap_text: True")
	require.NoError(t, err)
	assert.Equal(t, "general", align.Horizontal)
	assert.Equal(t, "center", align.Vertical)
	assert.True(t, align.WrapText)
}

func TestBuildAlignment_UnknownKey(t *testing.T) {
	_, err := buildAlignment("diagonal: up")
	assert.Error(t, err)
}

func TestBuildFill_Solid(t *testing.T) {
	fill, err := buildFill("fill_type: solid; fgColor: BFBFBF")
	require.NoError(t, err)
	require.NotNil(t, fill)
	assert.Equal(t, "pattern", fill.Type)
	assert.Equal(t, 1, fill.Pattern)
	assert.Equal(t, []string{"BFBFBF"}, fill.Color)
}

func TestBuildFill_Gradient(t *testing.T) {
	_, err := buildFill("fill_type: gradient; start_color: FFFFFF")
	assert.ErrorIs(t, err, ErrGradientFill)
}

func TestBuildFill_OtherTypeYieldsNone(t *testing.T) {
	fill, err := buildFill("fill_type: none")
	require.NoError(t, err)
	assert.Nil(t, fill)
}

func TestBuildFill_MissingType(t *testing.T) {
	_, err := buildFill("fgColor: BFBFBF")
	assert.Error(t, err)
}

func TestStyleParts_Merge(t *testing.T) {
	named, err := buildFont("bold: True")
	require.NoError(t, err)
	override, err := buildFont("size: 14")
	require.NoError(t, err)

	base := styleParts{font: named, numFmt: "0.00"}
	merged := base.merge(styleParts{font: override})
	assert.Same(t, override, merged.font)
	assert.Equal(t, "0.00", merged.numFmt)
}
