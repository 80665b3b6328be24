package xml2xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// styleParts holds the style attributes a cell or named style may carry.
// Only the parts that are set participate in the composed style.
type styleParts struct {
	font      *excelize.Font
	fill      *excelize.Fill
	alignment *excelize.Alignment
	numFmt    string
}

func (p styleParts) empty() bool {
	return p.font == nil && p.fill == nil && p.alignment == nil && p.numFmt == ""
}

// merge overlays cell-level parts on top of a named style's parts.
func (p styleParts) merge(over styleParts) styleParts {
	out := p
	if over.font != nil {
		out.font = over.font
	}
	if over.fill != nil {
		out.fill = over.fill
	}
	if over.alignment != nil {
		out.alignment = over.alignment
	}
	if over.numFmt != "" {
		out.numFmt = over.numFmt
	}
	return out
}

// buildFont builds a font from a descriptor string. Every key must be a
// known font attribute.
func buildFont(descriptor string) (*excelize.Font, error) {
	desc, err := ParseDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	font := &excelize.Font{}
	for key := range desc {
		switch key {
		case "name":
			font.Family = desc.stringKey(key)
		case "size":
			font.Size, err = desc.floatKey(key)
		case "bold":
			font.Bold, err = desc.boolKey(key)
		case "italic":
			font.Italic, err = desc.boolKey(key)
		case "underline":
			font.Underline = desc.stringKey(key)
		case "strike", "strikethrough":
			font.Strike, err = desc.boolKey(key)
		case "color":
			font.Color = desc.stringKey(key)
		default:
			return nil, fmt.Errorf("unknown font key %q", key)
		}
		if err != nil {
			return nil, fmt.Errorf("font descriptor: %w", err)
		}
	}
	return font, nil
}

// buildAlignment builds an alignment from a descriptor string.
func buildAlignment(descriptor string) (*excelize.Alignment, error) {
	desc, err := ParseDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	align := &excelize.Alignment{}
	for key := range desc {
		switch key {
		case "horizontal":
			align.Horizontal = desc.stringKey(key)
		case "vertical":
			align.Vertical = desc.stringKey(key)
		case "wrap_text":
			align.WrapText, err = desc.boolKey(key)
		case "shrink_to_fit":
			align.ShrinkToFit, err = desc.boolKey(key)
		case "indent":
			align.Indent, err = desc.intKey(key)
		case "text_rotation":
			align.TextRotation, err = desc.intKey(key)
		default:
			return nil, fmt.Errorf("unknown alignment key %q", key)
		}
		if err != nil {
			return nil, fmt.Errorf("alignment descriptor: %w", err)
		}
	}
	return align, nil
}

// buildFill builds a pattern fill from a descriptor string. The descriptor
// must carry a fill_type key: "solid" produces a solid pattern fill,
// "gradient" is rejected, anything else yields no fill.
func buildFill(descriptor string) (*excelize.Fill, error) {
	desc, err := ParseDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	if _, ok := desc["fill_type"]; !ok {
		return nil, fmt.Errorf("fill descriptor: missing fill_type")
	}
	switch desc.stringKey("fill_type") {
	case "solid":
	case "gradient":
		return nil, ErrGradientFill
	default:
		return nil, nil
	}

	fill := &excelize.Fill{Type: "pattern", Pattern: 1} // 1 = solid
	for key := range desc {
		switch key {
		case "fill_type", "patternType":
		case "fgColor", "fg_color", "start_color":
			fill.Color = []string{desc.stringKey(key)}
		case "bgColor", "bg_color", "end_color":
			// the writer exposes a single pattern color slot; foreground wins
			if len(fill.Color) == 0 {
				fill.Color = []string{desc.stringKey(key)}
			}
		default:
			return nil, fmt.Errorf("unknown fill key %q", key)
		}
	}
	return fill, nil
}
