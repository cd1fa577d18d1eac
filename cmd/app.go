package cmd

import (
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/conneroisu/codex/internal/config"
	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/inout"
	"github.com/conneroisu/codex/internal/lang"
	"github.com/conneroisu/codex/internal/logging"
	"github.com/conneroisu/codex/internal/render"
	"github.com/conneroisu/codex/internal/source"
)

// osFs is the file system every command reads and writes through.
var osFs = afero.NewOsFs()

func newLogger(cfg *config.Config, w io.Writer) logging.Logger {
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(cfg.Log.Level); err == nil {
		lc.Level = level
	}
	if cfg.Log.Format != "" {
		lc.Format = cfg.Log.Format
	}
	if w != nil {
		lc.Output = w
	}
	lc.Component = "cli"
	return logging.NewLogger(lc)
}

func loadCatalog(dir string) (*lang.Catalog, error) {
	catalog, err := lang.Load(dir)
	if err != nil {
		return nil, errors.WrapTemplate(err, "TEMPLATES_INVALID", "unable to compile templates")
	}
	return catalog, nil
}

func newRenderer(cfg *config.Config, logger logging.Logger) (*render.Renderer, error) {
	catalog, err := loadCatalog(cfg.Templates.Dir)
	if err != nil {
		return nil, err
	}
	return render.New(catalog, render.WithLogger(logger)), nil
}

// lookupTarget resolves the configured target, listing the choices when none
// was given.
func lookupTarget(catalog *lang.Catalog, target string) (lang.Language, error) {
	if target == "" {
		return "", errors.NewConfigError("MISSING_TARGET",
			"a target language is required (--target), one of: "+strings.Join(catalog.Flags(), ", "))
	}
	return catalog.Lookup(target)
}

// collectSources gathers the files inlined as comments: the preset, if one
// is configured, plus the explicit files.
func collectSources(cfg *config.Config, logger logging.Logger) ([]source.File, error) {
	opts := []source.Option{source.WithLogger(logger)}
	if !inout.IsStdio(cfg.Render.Output) {
		opts = append(opts, source.WithExclude(cfg.Render.Output))
	}
	collector := source.NewCollector(osFs, opts...)
	if cfg.Render.Source == "" {
		return collector.Collect(cfg.Render.Files...)
	}

	preset, err := cfg.Preset(cfg.Render.Source)
	if err != nil {
		return nil, err
	}
	return collector.CollectPreset(preset, cfg.Render.Files...)
}

// sourceRoots lists the paths collectSources reads from.
func sourceRoots(cfg *config.Config) []string {
	roots := append([]string(nil), cfg.Render.Files...)
	if preset, err := cfg.Preset(cfg.Render.Source); cfg.Render.Source != "" && err == nil {
		roots = append(roots, preset.Roots...)
	}
	return roots
}
