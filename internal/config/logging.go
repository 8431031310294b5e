package config

import (
	"io"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// EnvLogLevel overrides the log level.
	EnvLogLevel = "AUTOSWAGGER_LOG_LEVEL"
	// EnvLogFormat overrides the log format.
	EnvLogFormat = "AUTOSWAGGER_LOG_FORMAT"
)

// Level is a logging severity level.
type Level string

// Log levels.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ToSlogLevel maps the level onto slog. Unknown levels map to info.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Format is a log output format.
type Format string

// Log formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  Level  `toml:"level" json:"level"`
	Format Format `toml:"format" json:"format"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *LoggingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *LoggingConfig) Merge(overlay *LoggingConfig) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}

// NewLogger creates a logger writing to w with the configured level and format.
func (c *LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level.ToSlogLevel()}

	var handler slog.Handler
	if c.Format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func (c *LoggingConfig) loadDefaults() {
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatText
	}
}

func (c *LoggingConfig) loadEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Level = Level(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Format = Format(v)
	}
}

func (c *LoggingConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In(LevelDebug, LevelInfo, LevelWarn, LevelError)),
		validation.Field(&c.Format, validation.In(FormatText, FormatJSON)),
	)
}
