// Package config loads the skemaedit CLI configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	skemaedit "github.com/reoring/skemaedit"
	"github.com/reoring/skemaedit/recordio"
)

// EnvPrefix prefixes every environment override (SKEMAEDIT_LOG_LEVEL...).
const EnvPrefix = "SKEMAEDIT_"

// Configuration is the CLI configuration.
type Configuration struct {
	SchemaFile    string `koanf:"schema"`
	Entity        string `koanf:"entity"`
	Output        string `koanf:"output" validate:"oneof=json yaml"`
	LogLevel      string `koanf:"log_level" validate:"oneof=debug info warn error"`
	Lang          string `koanf:"lang" validate:"oneof=en ja"`
	MaxDepth      int    `koanf:"max_depth" validate:"min=0,max=10000"`
	DuplicateKeys string `koanf:"duplicate_keys" validate:"oneof=ignore warn error"`
	SubmitLog     string `koanf:"submit_log"`
}

// GetDefaults returns the built-in values applied before any source.
func GetDefaults() map[string]any {
	return map[string]any{
		"schema":         "",
		"entity":         "",
		"output":         "json",
		"log_level":      "warn",
		"lang":           "en",
		"max_depth":      256,
		"duplicate_keys": "error",
		"submit_log":     "",
	}
}

// Load reads configuration.
// Priority: Environment variables > config file > Defaults
func Load(path string) (*Configuration, error) {
	k := koanf.New(".")
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// SlogLevel maps LogLevel onto slog.
func (c *Configuration) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// RecordOptions projects the decoding settings onto recordio.Options.
func (c *Configuration) RecordOptions(onWarn func(string, string)) recordio.Options {
	opt := recordio.Options{MaxDepth: c.MaxDepth}
	switch c.DuplicateKeys {
	case "ignore":
		opt.OnDuplicateKey = recordio.Ignore
	case "warn":
		opt.OnDuplicateKey = recordio.Warn
	default:
		opt.OnDuplicateKey = recordio.Error
	}
	if onWarn != nil {
		opt.OnWarning = func(it skemaedit.Issue) { onWarn(it.Path, it.Message) }
	}
	return opt
}

// RecordFormat maps Output onto recordio.Format.
func (c *Configuration) RecordFormat() recordio.Format {
	if c.Output == "yaml" {
		return recordio.YAML
	}
	return recordio.JSON
}
