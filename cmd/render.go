package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/codex/internal/config"
	"github.com/conneroisu/codex/internal/inout"
	"github.com/conneroisu/codex/internal/logging"
	"github.com/conneroisu/codex/internal/render"
)

var renderCmd = &cobra.Command{
	Use:     "render",
	Aliases: []string{"r"},
	Short:   "Render a payload into a program for a target language",
	Long: `Render reads the payload, inlines the selected source files as comments and
writes one program that reconstitutes the payload when run.

Examples:
  codex render -t python -i app.bin -o app.py     # Payload from a file
  codex render -t ruby < app.bin > app.rb         # Payload from stdin
  codex render -t go -s go -f README.md           # Inline the Go sources
  codex render -t shell -c=false -i script.sh     # Embed the payload uncompressed`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd.Flags(), renderBindings)
	},
	RunE: runRender,
}

var renderBindings = map[string]string{
	"target":   "render.target",
	"file":     "render.files",
	"source":   "render.source",
	"compress": "render.compress",
	"input":    "render.input",
	"output":   "render.output",
}

func init() {
	rootCmd.AddCommand(renderCmd)

	AddStandardFlags(renderCmd, "target", "io")
	renderCmd.Flags().StringSliceP("file", "f", nil, "Source file or directory to inline (repeatable)")
	renderCmd.Flags().StringP("source", "s", "", "Source preset to inline (go, python, rust, ...)")
	renderCmd.Flags().BoolP("compress", "c", true, "Compress the payload with gzip and base64")

	_ = renderCmd.RegisterFlagCompletionFunc("source", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.Load()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var names []string
		for name := range cfg.Presets {
			names = append(names, name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}

	return renderOnce(cmd, cfg, renderer, func() ([]byte, error) {
		return inout.ReadInput(osFs, cmd.InOrStdin(), cfg.Render.Input)
	}, logger)
}

// renderOnce runs the pipeline: resolve the target, collect sources, read
// the payload, then render into a staged output that is only committed
// once the whole program was written.
func renderOnce(cmd *cobra.Command, cfg *config.Config, renderer *render.Renderer, readPayload func() ([]byte, error), logger logging.Logger) error {
	target, err := lookupTarget(renderer.Catalog(), cfg.Render.Target)
	if err != nil {
		return err
	}

	sources, err := collectSources(cfg, logger)
	if err != nil {
		return err
	}

	payload, err := readPayload()
	if err != nil {
		return err
	}

	out, err := inout.OpenOutput(osFs, cmd.OutOrStdout(), cfg.Render.Output)
	if err != nil {
		return err
	}
	defer out.Abort()

	err = renderer.Render(out, render.Request{
		Language: target,
		Payload:  payload,
		Sources:  sources,
		Compress: cfg.Render.Compress,
	})
	if err != nil {
		return err
	}
	if err := out.Commit(); err != nil {
		return err
	}

	logger.Debug(cmd.Context(), "Rendered program",
		"language", string(target), "output", out.Path(), "sources", len(sources))
	return nil
}
