package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/codex/internal/config"
	"github.com/conneroisu/codex/internal/lang"
)

var languagesCmd = &cobra.Command{
	Use:     "languages",
	Aliases: []string{"l", "ls"},
	Short:   "List the supported target languages",
	Long: `List every language of the active template catalog with its template file
and the comment markers used to inline source files.

Examples:
  codex languages                         # Table
  codex languages --format json           # JSON
  codex languages --templates ./mine      # Languages of a custom template directory`,
	RunE: runLanguages,
}

var languagesFlags *StandardFlags

func init() {
	rootCmd.AddCommand(languagesCmd)

	languagesFlags = AddStandardFlags(languagesCmd, "format")

	AddFlagValidation(languagesCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"table", "json", "yaml"})
	})
}

func runLanguages(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(cfg.Templates.Dir)
	if err != nil {
		return err
	}

	infos := catalog.Describe()
	out := cmd.OutOrStdout()

	switch strings.ToLower(languagesFlags.Format) {
	case "json":
		return outputJSON(out, infos)
	case "yaml":
		return outputYAML(out, infos)
	default:
		return outputLanguagesTable(out, infos)
	}
}

func outputLanguagesTable(out io.Writer, infos []lang.Info) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LANGUAGE\tFLAG\tTEMPLATE\tCOMMENT")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.Flag, info.File,
			strings.TrimSpace(info.CommentPrefix+"..."+info.CommentSuffix))
	}
	return w.Flush()
}

func outputJSON(out io.Writer, v interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputYAML(out io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(out)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(v)
}
