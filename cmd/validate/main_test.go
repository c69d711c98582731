package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/aftermath/pkg/decision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogValidator_ShippedCatalog(t *testing.T) {
	v := &CatalogValidator{}
	err := v.validateFile(filepath.Join("..", "..", "data", "decisions.json"))
	require.NoError(t, err)
	assert.Empty(t, v.warnings)
}

func TestCatalogValidator_Errors(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		errContains string
	}{
		{
			name:        "empty catalog",
			data:        `[]`,
			errContains: "no decisions",
		},
		{
			name:        "unknown field",
			data:        `[{"id": "signal", "title": "t", "choices": [{"text": "a"}], "weight": 2}]`,
			errContains: "strict",
		},
		{
			name:        "bad id",
			data:        `[{"id": "Signal-One", "title": "t", "choices": [{"text": "a"}]}]`,
			errContains: "snake_case",
		},
		{
			name:        "duplicate id",
			data:        `[{"id": "a", "title": "t", "choices": [{"text": "x"}]}, {"id": "a", "title": "u", "choices": [{"text": "y"}]}]`,
			errContains: "duplicate",
		},
		{
			name:        "no choices",
			data:        `[{"id": "a", "title": "t", "choices": []}]`,
			errContains: "no choices",
		},
		{
			name:        "unknown tier",
			data:        `[{"id": "a", "title": "t", "choices": [{"text": "x", "consequences": {"extreme": "boom"}}]}]`,
			errContains: "unknown consequence tier",
		},
		{
			name:        "missing tier",
			data:        `[{"id": "a", "title": "t", "choices": [{"text": "x", "consequences": {"low": "l", "high": "h"}}]}]`,
			errContains: "no 'mid' consequence",
		},
		{
			name:        "missing title",
			data:        `[{"id": "a", "choices": [{"text": "x"}]}]`,
			errContains: "no title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &CatalogValidator{}
			err := v.validateData([]byte(tt.data), decision.FormatJSON, "test.json")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestCatalogValidator_Warnings(t *testing.T) {
	v := &CatalogValidator{}
	err := v.validateData([]byte(`
- id: lantern
  title: A lantern flickers.
  tags: [entropy]
  choices:
    - text: Blow it out.
      effects:
        entropy: -3
        control: 2
      consequences:
        low: Darkness settles.
        mid: The wick keeps smoking.
        high: You still see the flame when you close your eyes.
`), decision.FormatYAML, "test.yaml")
	require.NoError(t, err)

	require.Len(t, v.warnings, 2)
	assert.Contains(t, v.warnings[0], "no kicker")
	assert.Contains(t, v.warnings[1], "unknown variable 'control'")
}

func TestCatalogValidator_File(t *testing.T) {
	v := &CatalogValidator{}
	assert.Error(t, v.validateFile("decisions.txt"))
	assert.Error(t, v.validateFile(filepath.Join(t.TempDir(), "missing.json")))

	path := filepath.Join(t.TempDir(), "ok.yml")
	require.NoError(t, os.WriteFile(path, []byte("- id: a\n  title: t\n  kicker: K\n  choices:\n    - text: x\n      consequences: {low: l, mid: m, high: h}\n"), 0o644))
	assert.NoError(t, v.validateFile(path))
}

func TestIsValidID(t *testing.T) {
	assert.True(t, isValidID("signal"))
	assert.True(t, isValidID("spare_key2"))
	assert.True(t, isValidID("a"))
	assert.False(t, isValidID("Signal"))
	assert.False(t, isValidID("spare-key"))
	assert.False(t, isValidID("key_"))
}
