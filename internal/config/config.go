// Package config provides configuration management for codex using Viper
// for loading from files, environment variables, and command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the CODEX_ prefix and validation. It manages render
// defaults, the template directory, source presets, the watcher and the
// HTTP render service.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/source"
)

// Default values applied when a key is not set.
const (
	DefaultAddr          = "localhost:8417"
	DefaultDebounce      = 300 * time.Millisecond
	DefaultMaxPayload    = 64 << 20
	DefaultReadTimeout   = 30 * time.Second
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultStdioSelector = "-"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "CODEX"

// EnvKeyReplacer maps nested keys such as serve.addr onto SERVE_ADDR.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// keys lists every scalar key so environment overrides reach Unmarshal.
var keys = []string{
	"render.target", "render.compress", "render.files", "render.source",
	"render.input", "render.output",
	"templates.dir",
	"watch.debounce", "watch.paths",
	"serve.addr", "serve.read_timeout", "serve.max_payload",
	"log.level", "log.format",
}

// BindEnv wires CODEX_* environment variables into viper.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.AutomaticEnv()
	for _, key := range keys {
		// BindEnv only fails without a key.
		_ = viper.BindEnv(key)
	}
}

type Config struct {
	Render    RenderConfig             `mapstructure:"render" yaml:"render"`
	Templates TemplatesConfig          `mapstructure:"templates" yaml:"templates"`
	Presets   map[string]source.Preset `mapstructure:"presets" yaml:"presets"`
	Watch     WatchConfig              `mapstructure:"watch" yaml:"watch"`
	Serve     ServeConfig              `mapstructure:"serve" yaml:"serve"`
	Log       LogConfig                `mapstructure:"log" yaml:"log"`
}

type RenderConfig struct {
	Target   string   `mapstructure:"target" yaml:"target"`
	Compress bool     `mapstructure:"compress" yaml:"compress"`
	Files    []string `mapstructure:"files" yaml:"files"`
	Source   string   `mapstructure:"source" yaml:"source"`
	Input    string   `mapstructure:"input" yaml:"input"`
	Output   string   `mapstructure:"output" yaml:"output"`
}

type TemplatesConfig struct {
	// Dir overrides the embedded template corpus when set.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
	// Paths are watched in addition to the render inputs.
	Paths []string `mapstructure:"paths" yaml:"paths"`
}

type ServeConfig struct {
	Addr        string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	MaxPayload  int64         `mapstructure:"max_payload" yaml:"max_payload"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.WrapConfig(err, "CONFIG_DECODE", "unable to decode configuration")
	}

	// Handle file lists set via viper (workaround for viper slice handling)
	if viper.IsSet("render.files") && len(config.Render.Files) == 0 {
		config.Render.Files = viper.GetStringSlice("render.files")
	}
	if viper.IsSet("watch.paths") && len(config.Watch.Paths) == 0 {
		config.Watch.Paths = viper.GetStringSlice("watch.paths")
	}

	// Payloads are compressed unless compression is explicitly disabled
	if viper.IsSet("render.compress") {
		config.Render.Compress = viper.GetBool("render.compress")
	} else {
		config.Render.Compress = true
	}

	if config.Render.Input == "" {
		config.Render.Input = DefaultStdioSelector
	}
	if config.Render.Output == "" {
		config.Render.Output = DefaultStdioSelector
	}

	if config.Watch.Debounce == 0 && !viper.IsSet("watch.debounce") {
		config.Watch.Debounce = DefaultDebounce
	}

	if config.Serve.Addr == "" && !viper.IsSet("serve.addr") {
		config.Serve.Addr = DefaultAddr
	}
	if config.Serve.ReadTimeout == 0 {
		config.Serve.ReadTimeout = DefaultReadTimeout
	}
	if config.Serve.MaxPayload == 0 {
		config.Serve.MaxPayload = DefaultMaxPayload
	}

	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}

	config.Presets = mergePresets(config.Presets)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Preset returns the named preset, built-in or configured.
func (c *Config) Preset(name string) (source.Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return source.Preset{}, errors.NewConfigError("UNKNOWN_PRESET",
			"unknown source preset `"+name+"`").
			WithContext("available", source.PresetNames(c.Presets))
	}
	return p, nil
}

// mergePresets overlays configured presets on the built-in ones. Fields left
// empty in a configured preset that shadows a built-in keep the built-in
// value.
func mergePresets(configured map[string]source.Preset) map[string]source.Preset {
	presets := source.BuiltinPresets()
	for name, p := range configured {
		p.Name = name
		if base, ok := presets[name]; ok {
			if len(p.Roots) == 0 {
				p.Roots = base.Roots
			}
			if len(p.Extensions) == 0 {
				p.Extensions = base.Extensions
			}
			if p.SkipDirs == nil {
				p.SkipDirs = base.SkipDirs
			}
		}
		if len(p.Roots) == 0 {
			p.Roots = []string{"."}
		}
		presets[name] = p
	}
	return presets
}
