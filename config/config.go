package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/andrewvolostnykh/viewton/output"
	"github.com/lmittmann/tint"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overriding config keys, e.g.
// VIEWTON_LOGGER_LEVEL for logger.level.
const EnvPrefix = "VIEWTON"

type Config struct {
	Logger LoggerConfig  `yaml:"logger" mapstructure:"logger"`
	Output output.Config `yaml:"output" mapstructure:"output"`
}

type LoggerConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	Type  string `yaml:"type" mapstructure:"type"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		Logger: LoggerConfig{Level: "info", Type: "colored-text"},
		Output: output.Config{Format: output.FormatQuery},
	}
}

// Load reads the optional YAML file at path and applies VIEWTON_* environment
// overrides on top of the defaults. An empty path or a missing file only
// yields defaults and environment values.
func Load(path string) (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("logger.level", def.Logger.Level)
	v.SetDefault("logger.type", def.Logger.Type)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.base_url", def.Output.BaseURL)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the logger described by cfg writing to w.
func (cfg LoggerConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	var handler slog.Handler

	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	switch cfg.Type {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case "colored-text":
		handler = tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.Kitchen})
	default:
		return nil, fmt.Errorf("invalid log type: %s", cfg.Type)
	}

	return slog.New(handler), nil
}
