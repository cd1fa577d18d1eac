package source

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/internal/testutils"
)

func TestBuiltinPresets(t *testing.T) {
	presets := BuiltinPresets()

	assert.Equal(t, []string{"csharp", "go", "java", "javascript", "kotlin", "python", "ruby", "rust"}, PresetNames(presets))
	for name, p := range presets {
		assert.Equal(t, name, p.Name)
		assert.NotEmpty(t, p.Roots, name)
		assert.NotEmpty(t, p.Extensions, name)
	}
}

func TestCollectPresetFilters(t *testing.T) {
	sep := string(os.PathSeparator)
	fs := testutils.MemFS(t, map[string]string{
		"proj/main.go":             "package main",
		"proj/main_test.go":        "package main",
		"proj/notes.md":            "notes",
		"proj/vendor/dep/dep.go":   "package dep",
		"proj/testdata/fixture.go": "package fixture",
		"proj/internal/x/x.go":     "package x",
		"extra/LICENSE":            "MIT",
	})

	preset := BuiltinPresets()["go"]
	preset.Roots = []string{"proj"}

	files, err := NewCollector(fs).CollectPreset(preset, "extra/LICENSE")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"extra/LICENSE",
		"proj" + sep + "internal" + sep + "x" + sep + "x.go",
		"proj" + sep + "main.go",
		"proj" + sep + "main_test.go",
	}, names(files))
}

func TestCollectPresetWithoutExtensionsKeepsAll(t *testing.T) {
	fs := testutils.MemFS(t, map[string]string{
		"root/a.txt": "a",
		"root/b.bin": "b",
		"root/.git/HEAD": "ref",
	})

	files, err := NewCollector(fs).CollectPreset(Preset{
		Name:     "all",
		Roots:    []string{"root"},
		SkipDirs: []string{".git"},
	})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestCollectPresetMissingRootFails(t *testing.T) {
	_, err := NewCollector(testutils.MemFS(t, nil)).CollectPreset(Preset{Name: "x", Roots: []string{"nope"}})
	require.Error(t, err)
}
