package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Target flags
	Target string `flag:"target,t" desc:"Target language" default:""`

	// IO flags
	Input  string `flag:"input,i" desc:"Input path or - for stdin" default:"-"`
	Output string `flag:"output,o" desc:"Output path or - for stdout" default:"-"`

	// Listing flags
	Format string `flag:"format" desc:"Output format (table|json|yaml)" default:"table"`
}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{}

	for _, flagType := range flagTypes {
		switch flagType {
		case "target":
			addTargetFlags(cmd, flags)
		case "io":
			addIOFlags(cmd, flags)
		case "format":
			addFormatFlags(cmd, flags, "table")
		case "text-format":
			addFormatFlags(cmd, flags, "text")
		}
	}

	return flags
}

func addTargetFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.Target, "target", "t", "", "Target language (see `codex languages`)")
	_ = cmd.RegisterFlagCompletionFunc("target", completeTargets)
}

func addIOFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.Input, "input", "i", "-", "Input path or - for stdin")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "-", "Output path or - for stdout")
}

func addFormatFlags(cmd *cobra.Command, flags *StandardFlags, def string) {
	cmd.Flags().StringVar(&flags.Format, "format", def, "Output format")
}

// completeTargets offers every language of the active template catalog.
func completeTargets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	catalog, err := loadCatalog(viper.GetString("templates.dir"))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, flag := range catalog.Flags() {
		if strings.HasPrefix(flag, strings.ToLower(toComplete)) {
			out = append(out, flag)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// bindFlags binds flags to viper configuration keys
func bindFlags(flags *pflag.FlagSet, bindings map[string]string) {
	for flagName, configKey := range bindings {
		if flag := flags.Lookup(flagName); flag != nil {
			// BindPFlag only fails for a nil flag.
			_ = viper.BindPFlag(configKey, flag)
		}
	}
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		flag = cmd.PersistentFlags().Lookup(flagName)
	}
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidateFormatWithSuggestion rejects formats outside valid and suggests
// the closest valid one.
func ValidateFormatWithSuggestion(format string, valid []string) error {
	lower := strings.ToLower(format)
	for _, v := range valid {
		if lower == v {
			return nil
		}
	}

	best, bestDistance := "", len(format)+1
	for _, v := range valid {
		if d := distance(lower, v); d < bestDistance {
			best, bestDistance = v, d
		}
	}
	if best != "" && bestDistance <= 2 {
		return fmt.Errorf("invalid format %q, did you mean %q? (valid: %s)",
			format, best, strings.Join(valid, ", "))
	}
	return fmt.Errorf("invalid format %q (valid: %s)", format, strings.Join(valid, ", "))
}

// distance is the Levenshtein distance between a and b.
func distance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
