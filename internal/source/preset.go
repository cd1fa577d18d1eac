package source

import (
	"path/filepath"
	"slices"
	"sort"
)

// Preset is a named recursive convention for finding a project's own
// sources, e.g. every .go file below the current directory.
type Preset struct {
	Name       string   `mapstructure:"name" yaml:"name" json:"name"`
	Roots      []string `mapstructure:"roots" yaml:"roots" json:"roots"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions" json:"extensions"`
	SkipDirs   []string `mapstructure:"skip_dirs" yaml:"skip_dirs" json:"skip_dirs"`
}

var defaultSkipDirs = []string{".git", ".hg", ".svn", "node_modules", "vendor"}

// BuiltinPresets returns the presets shipped with codex, keyed by name.
func BuiltinPresets() map[string]Preset {
	presets := []Preset{
		{Name: "go", Roots: []string{"."}, Extensions: []string{".go"}, SkipDirs: append([]string{"testdata"}, defaultSkipDirs...)},
		{Name: "python", Roots: []string{"."}, Extensions: []string{".py"}, SkipDirs: append([]string{"__pycache__", ".venv", "venv"}, defaultSkipDirs...)},
		{Name: "rust", Roots: []string{"src"}, Extensions: []string{".rs"}, SkipDirs: defaultSkipDirs},
		{Name: "java", Roots: []string{"src"}, Extensions: []string{".java"}, SkipDirs: append([]string{"build", "target"}, defaultSkipDirs...)},
		{Name: "kotlin", Roots: []string{"src"}, Extensions: []string{".kt", ".kts"}, SkipDirs: append([]string{"build"}, defaultSkipDirs...)},
		{Name: "csharp", Roots: []string{"."}, Extensions: []string{".cs"}, SkipDirs: append([]string{"bin", "obj"}, defaultSkipDirs...)},
		{Name: "javascript", Roots: []string{"."}, Extensions: []string{".js", ".mjs", ".cjs"}, SkipDirs: append([]string{"dist"}, defaultSkipDirs...)},
		{Name: "ruby", Roots: []string{"lib"}, Extensions: []string{".rb"}, SkipDirs: defaultSkipDirs},
	}

	out := make(map[string]Preset, len(presets))
	for _, p := range presets {
		out[p.Name] = p
	}
	return out
}

// PresetNames returns the sorted keys of presets.
func PresetNames(presets map[string]Preset) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// filter keeps directories not listed in SkipDirs and files whose extension
// is listed in Extensions. An empty extension list keeps every file.
func (p Preset) filter() Filter {
	return func(path string, isDir bool) bool {
		base := filepath.Base(path)
		if isDir {
			return !slices.Contains(p.SkipDirs, base)
		}
		if len(p.Extensions) == 0 {
			return true
		}
		return slices.Contains(p.Extensions, filepath.Ext(base))
	}
}

// CollectPreset walks the preset roots through the preset filter, adds the
// explicit extra paths unfiltered, and returns the merged, sorted result.
func (c *Collector) CollectPreset(p Preset, extra ...string) ([]File, error) {
	var files []File
	filter := p.filter()
	for _, root := range p.Roots {
		if err := c.extend(&files, root, filter); err != nil {
			return nil, err
		}
	}
	for _, path := range extra {
		if err := c.extend(&files, path, nil); err != nil {
			return nil, err
		}
	}
	Sort(files)
	return files, nil
}
