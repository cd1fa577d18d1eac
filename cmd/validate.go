package cmd

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/codex/internal/config"
	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/lang"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate a template directory",
	Long: `Validate every template of a directory against the marker contract and
report all violations at once:

- exactly one __SOURCE__ and one __PAYLOAD__ directive
- __SOURCE__ before __PAYLOAD__, never on the same line
- file names of the form <language>.<suffix> with an alphabetic language
- no language defined twice

Without an argument the configured template directory (or the embedded
templates) is validated.

Examples:
  codex validate ./templates          # Validate a directory
  codex validate --format json        # Output results as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidateCommand,
}

var validateFlags *StandardFlags

func init() {
	rootCmd.AddCommand(validateCmd)

	validateFlags = AddStandardFlags(validateCmd, "text-format")

	AddFlagValidation(validateCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"text", "json"})
	})
}

type ValidationResult struct {
	File     string `json:"file,omitempty"`
	Language string `json:"language,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

type ValidationSummary struct {
	Directory  string             `json:"directory"`
	Templates  int                `json:"templates"`
	Valid      bool               `json:"valid"`
	Violations []ValidationResult `json:"violations"`
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir := cfg.Templates.Dir
	if len(args) > 0 {
		dir = args[0]
	}

	var fsys fs.FS
	if dir == "" {
		fsys, dir = lang.BuiltinFS(), "<embedded>"
	} else {
		fsys = os.DirFS(dir)
	}

	files, err := lang.ReadFiles(fsys, ".")
	if err != nil {
		return err
	}

	summary := ValidationSummary{
		Directory:  dir,
		Templates:  len(files),
		Violations: []ValidationResult{},
	}
	for _, violation := range violations(lang.Validate(files)) {
		var ce *errors.CodexError
		result := ValidationResult{Message: violation.Error()}
		if stderrors.As(violation, &ce) {
			result = ValidationResult{File: ce.Path, Language: ce.Language, Code: ce.Code, Message: ce.Message}
		}
		summary.Violations = append(summary.Violations, result)
	}
	summary.Valid = len(summary.Violations) == 0

	out := cmd.OutOrStdout()
	if validateFlags.Format == "json" {
		if err := outputJSON(out, summary); err != nil {
			return err
		}
	} else {
		for _, v := range summary.Violations {
			fmt.Fprintf(out, "✗ %s: [%s] %s\n", v.File, v.Code, v.Message)
		}
		if summary.Valid {
			fmt.Fprintf(out, "✓ %d templates in %s are valid\n", summary.Templates, dir)
		}
	}

	if !summary.Valid {
		return errors.NewValidationError("TEMPLATES_INVALID",
			fmt.Sprintf("%d template %s in %s", len(summary.Violations), plural(len(summary.Violations), "violation"), dir))
	}
	return nil
}

// violations flattens the joined error returned by lang.Validate.
func violations(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
