package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/codex/internal/config"
	"github.com/conneroisu/codex/internal/server"
	"github.com/conneroisu/codex/internal/source"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the render pipeline over HTTP",
	Long: `Serve starts an HTTP service rendering programs on request:

  GET  /health                               Liveness and catalog size
  GET  /languages                            Supported languages as JSON
  POST /render?target=python[&compress=false] Body is the payload

The configured source files and preset are collected for every request.

Examples:
  codex serve                          # Listen on localhost:8417
  codex serve --addr :9000 -s go       # Inline this Go project's sources
  curl --data-binary @app.bin 'localhost:8417/render?target=ruby' > app.rb`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd.Flags(), serveBindings)
	},
	RunE: runServe,
}

var serveBindings = map[string]string{
	"addr":     "serve.addr",
	"file":     "render.files",
	"source":   "render.source",
	"compress": "render.compress",
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", config.DefaultAddr, "Address to listen on")
	serveCmd.Flags().StringSliceP("file", "f", nil, "Source file or directory to inline (repeatable)")
	serveCmd.Flags().StringP("source", "s", "", "Source preset to inline")
	serveCmd.Flags().BoolP("compress", "c", true, "Default for requests without ?compress=")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Serve, renderer,
		server.WithLogger(logger),
		server.WithCompress(cfg.Render.Compress),
		server.WithSources(func() ([]source.File, error) {
			return collectSources(cfg, logger)
		}),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
