package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/codex/internal/config"
	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/inout"
	"github.com/conneroisu/codex/internal/logging"
	"github.com/conneroisu/codex/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Re-render whenever the payload, sources or templates change",
	Long: `Watch renders once like render, then renders again whenever the input
file, an inlined source file or a template changes. Bursts of changes are
debounced (watch.debounce) into a single render. Output must be a file.

Examples:
  codex watch -t python -i app.bin -o app.py
  codex watch -t go -s go -i build/app -o dist/main.go`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd.Flags(), watchBindings)
	},
	RunE: runWatch,
}

var watchBindings = map[string]string{
	"target":   "render.target",
	"file":     "render.files",
	"source":   "render.source",
	"compress": "render.compress",
	"input":    "render.input",
	"output":   "render.output",
	"debounce": "watch.debounce",
}

func init() {
	rootCmd.AddCommand(watchCmd)

	AddStandardFlags(watchCmd, "target", "io")
	watchCmd.Flags().StringSliceP("file", "f", nil, "Source file or directory to inline (repeatable)")
	watchCmd.Flags().StringP("source", "s", "", "Source preset to inline")
	watchCmd.Flags().BoolP("compress", "c", true, "Compress the payload with gzip and base64")
	watchCmd.Flags().Duration("debounce", config.DefaultDebounce, "Quiet period before re-rendering")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	if inout.IsStdio(cfg.Render.Output) {
		return errors.NewConfigError("INVALID_OUTPUT", "watch needs a file --output")
	}

	// stdin can only be read once, so its payload is kept for every render.
	readPayload := func() ([]byte, error) {
		return inout.ReadInput(osFs, cmd.InOrStdin(), cfg.Render.Input)
	}
	if inout.IsStdio(cfg.Render.Input) {
		payload, err := readPayload()
		if err != nil {
			return err
		}
		readPayload = func() ([]byte, error) { return payload, nil }
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerender := func(ctx context.Context) error {
		// Templates are recompiled on every run so template edits apply.
		renderer, err := newRenderer(cfg, logger)
		if err != nil {
			return err
		}
		return renderOnce(cmd, cfg, renderer, readPayload, logger)
	}

	if err := rerender(ctx); err != nil {
		// Keep watching so the next fix triggers a render.
		logger.Error(ctx, err, "Initial render failed")
	} else {
		logger.Info(ctx, "Rendered", "output", cfg.Render.Output)
	}

	fileWatcher, err := watcher.NewFileWatcher(cfg.Watch.Debounce, watcher.WithLogger(logger))
	if err != nil {
		return err
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.NoGitFilter)
	fileWatcher.AddFilter(watcher.NoTempFilter)
	fileWatcher.AddFilter(watcher.IgnoreFilter(cfg.Render.Output))
	if cfg.Render.Source != "" {
		if preset, err := cfg.Preset(cfg.Render.Source); err == nil {
			fileWatcher.AddFilter(watcher.SkipDirFilter(preset.SkipDirs...))
		}
	}

	for _, path := range watchPaths(cfg) {
		if err := fileWatcher.AddPath(path); err != nil {
			return err
		}
		logger.Debug(ctx, "Watching", "path", path)
	}

	fileWatcher.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		for _, event := range events {
			logger.Debug(ctx, "File changed", "path", event.Path, "type", event.Type.String())
		}
		op := logging.StartOperation(logger, "rerender")
		if err := rerender(ctx); err != nil {
			op.EndWithError(ctx, err)
			return err
		}
		op.End(ctx)
		logger.Info(ctx, "Rendered", "output", cfg.Render.Output, "changes", len(events))
		return nil
	})

	if err := fileWatcher.Start(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "Watching for changes, press Ctrl+C to stop")

	<-ctx.Done()
	return nil
}

// watchPaths lists every path a render depends on.
func watchPaths(cfg *config.Config) []string {
	var paths []string
	if !inout.IsStdio(cfg.Render.Input) {
		paths = append(paths, cfg.Render.Input)
	}
	paths = append(paths, sourceRoots(cfg)...)
	if cfg.Templates.Dir != "" {
		paths = append(paths, cfg.Templates.Dir)
	}
	paths = append(paths, cfg.Watch.Paths...)

	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		key := filepath.Clean(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
