// Package cmd provides the command-line interface for codex with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports configuration through multiple sources with clear precedence:
//	1. Command-line flags (--target, --output, etc.) - highest priority
//	2. Individual environment variables (CODEX_RENDER_TARGET, etc.)
//	3. Configuration files (.codex.yml, or CODEX_CONFIG_FILE) - lowest priority
//
// Environment Variables:
//
//	CODEX_CONFIG_FILE: Path to custom configuration file
//	CODEX_RENDER_TARGET: Default target language
//	CODEX_RENDER_COMPRESS: Compress payloads (true/false)
//	CODEX_SERVE_ADDR: Listen address of `codex serve`
//	And more following the CODEX_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/codex/internal/config"
	"github.com/conneroisu/codex/internal/errors"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codex",
	Short: "Wrap a binary payload into a self-contained program",
	Long: `codex turns an arbitrary binary payload, plus optionally the source files
that produced it, into one program text in a chosen target language. Running
the generated program with its toolchain reconstitutes the payload.

Quick Start:
  codex render -t python -i app.bin -o app.py   Wrap app.bin for Python
  codex render -t go -s go < app.bin > main.go  Inline this Go project's sources
  codex languages                               List target languages
  codex validate ./templates                    Check a template directory
  codex serve                                   Render over HTTP

Command Aliases:
  render (r), languages (l, ls), extract (x), watch (w)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		if hint := errors.FormatSuggestions(errors.Suggest(err)); hint != "" {
			fmt.Fprint(rootCmd.ErrOrStderr(), "\n"+hint)
		}
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .codex.yml, can also use CODEX_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "log format (text, json)")
	rootCmd.PersistentFlags().String("templates", "", "template directory overriding the embedded templates")

	AddFlagValidation(rootCmd, "log-format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"text", "json"})
	})
}

// initConfig initializes the configuration system with support for multiple config sources.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. CODEX_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .codex.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("CODEX_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".codex")
	}

	config.BindEnv()
	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"log-level":  "log.level",
		"log-format": "log.format",
		"templates":  "templates.dir",
	})

	// A missing config file is fine; Load still applies defaults
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
