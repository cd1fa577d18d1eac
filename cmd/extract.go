package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/codex/internal/config"
	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/inout"
)

var extractCmd = &cobra.Command{
	Use:     "extract",
	Aliases: []string{"x"},
	Short:   "Recover the payload from a rendered program",
	Long: `Extract reverses render: it reads a program generated for --target, locates
the encoded payload between the template text around it and writes the
original payload bytes.

Examples:
  codex extract -t python -i app.py -o app.bin
  codex extract -t shell -c=false < script.sh > payload`,
	RunE: runExtract,
}

var (
	extractFlags    *StandardFlags
	extractCompress bool
)

func init() {
	rootCmd.AddCommand(extractCmd)

	extractFlags = AddStandardFlags(extractCmd, "target", "io")
	extractCmd.Flags().BoolVarP(&extractCompress, "compress", "c", true, "The payload was rendered compressed")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}
	target, err := lookupTarget(renderer.Catalog(), extractFlags.Target)
	if err != nil {
		return err
	}

	program, err := inout.ReadInput(osFs, cmd.InOrStdin(), extractFlags.Input)
	if err != nil {
		return err
	}

	payload, err := renderer.Extract(target, string(program), extractCompress)
	if err != nil {
		return err
	}

	out, err := inout.OpenOutput(osFs, cmd.OutOrStdout(), extractFlags.Output)
	if err != nil {
		return err
	}
	defer out.Abort()

	if _, err := out.Write(payload); err != nil {
		return errors.WrapIO(err, "OUTPUT_WRITE", "writing payload failed")
	}
	return out.Commit()
}
