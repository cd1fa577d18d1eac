package config

import (
	"strings"

	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/logging"
)

var validLogFormats = []string{"text", "json"}

// validateConfig validates configuration values for correctness
func validateConfig(config *Config) error {
	collector := errors.NewErrorCollector()

	if config.Templates.Dir != "" {
		if err := validatePath(config.Templates.Dir); err != nil {
			collector.AddError(invalid("templates.dir", err))
		}
	}

	for _, path := range config.Watch.Paths {
		if err := validatePath(path); err != nil {
			collector.AddError(invalid("watch.paths", err))
		}
	}
	if config.Watch.Debounce <= 0 {
		collector.AddError(errors.NewConfigError("INVALID_CONFIG", "watch.debounce must be positive"))
	}

	if strings.TrimSpace(config.Serve.Addr) == "" {
		collector.AddError(errors.NewConfigError("INVALID_CONFIG", "serve.addr can't be empty"))
	}
	if config.Serve.MaxPayload < 0 {
		collector.AddError(errors.NewConfigError("INVALID_CONFIG", "serve.max_payload can't be negative"))
	}

	for name, preset := range config.Presets {
		if !isAlpha(name) {
			collector.AddError(errors.NewConfigError("INVALID_CONFIG",
				"preset name `"+name+"` must be only ASCII alphabetic"))
		}
		for _, root := range preset.Roots {
			if err := validatePath(root); err != nil {
				collector.AddError(invalid("presets."+name+".roots", err))
			}
		}
		for _, ext := range preset.Extensions {
			if !strings.HasPrefix(ext, ".") {
				collector.AddError(errors.NewConfigError("INVALID_CONFIG",
					"presets."+name+".extensions: `"+ext+"` must start with a dot"))
			}
		}
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		collector.AddError(invalid("log.level", err))
	}
	if !contains(validLogFormats, config.Log.Format) {
		collector.AddError(errors.NewConfigError("INVALID_CONFIG",
			"log.format must be one of "+strings.Join(validLogFormats, ", ")))
	}

	if err := collector.Err(); err != nil {
		return errors.WrapConfig(err, "INVALID_CONFIG", "invalid configuration")
	}
	return nil
}

// validatePath validates a configured file path
func validatePath(path string) error {
	if path == "" {
		return errors.NewValidationError("INVALID_PATH", "empty path")
	}
	if strings.ContainsAny(path, "\x00\n\r") {
		return errors.NewValidationError("INVALID_PATH", "path contains control characters").WithPath(path)
	}
	if strings.TrimSpace(path) == "" {
		return errors.NewValidationError("INVALID_PATH", "path is only whitespace").WithPath(path)
	}
	return nil
}

func invalid(field string, err error) error {
	return errors.WrapConfig(err, "INVALID_CONFIG", field)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
