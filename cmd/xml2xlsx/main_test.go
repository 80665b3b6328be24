package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	env, err := parseParams([]string{
		"name=World",
		"count=3",
		"price=2.5",
		"active=True",
		"note = spaced ",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "World",
		"count":  3,
		"price":  2.5,
		"active": true,
		"note":   "spaced",
	}, env)
}

func TestParseParams_LastPairWins(t *testing.T) {
	env, err := parseParams([]string{"x=1", "x=2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 2}, env)
}

func TestParseParams_MissingSeparator(t *testing.T) {
	_, err := parseParams([]string{"name=ok", "broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "key=value")
}
