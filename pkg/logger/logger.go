// Package logger wraps zerolog with SpecCade's conventions: a Config
// struct selecting console/JSON output, and a service/version stamp
// applied to every logger so pipeline logs can be correlated across a
// multi-process run (CLI + worker).
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// RunIDKey is the context key for a generation run identifier.
	RunIDKey ContextKey = "run_id"
	// AssetIDKey is the context key for the asset currently being processed.
	AssetIDKey ContextKey = "asset_id"
)

// Config holds logger configuration.
type Config struct {
	Level      string
	Format     string // "json" or "console"
	Output     string // "stdout" or "stderr"
	TimeFormat string
}

// New creates a new logger at the given level with console output,
// SpecCade's interactive default.
func New(level string) zerolog.Logger {
	return NewWithConfig(Config{
		Level:      level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: time.RFC3339,
	})
}

// NewWithConfig creates a new logger with custom configuration.
func NewWithConfig(cfg Config) zerolog.Logger {
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	var output *os.File
	switch cfg.Output {
	case "stdout":
		output = os.Stdout
	default:
		output = os.Stderr
	}

	var base zerolog.Logger
	if cfg.Format == "json" {
		base = zerolog.New(output).With().Timestamp().Logger()
	} else {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "2006-01-02 15:04:05",
			FormatLevel: func(i interface{}) string {
				return strings.ToUpper(fmt.Sprintf("| %-5s |", i))
			},
			FormatFieldName: func(i interface{}) string {
				return fmt.Sprintf("%s:", i)
			},
		}
		base = zerolog.New(consoleWriter).With().Timestamp().Logger()
	}

	logLevel, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	return base.With().
		Str("service", "speccade").
		Str("version", getVersion()).
		Logger()
}

// WithRunID adds a generation run identifier to the logger context.
func WithRunID(logger zerolog.Logger, runID string) zerolog.Logger {
	return logger.With().Str("run_id", runID).Logger()
}

// WithAssetID adds an asset identifier to the logger context.
func WithAssetID(logger zerolog.Logger, assetID string) zerolog.Logger {
	return logger.With().Str("asset_id", assetID).Logger()
}

// WithContext pulls run/asset identifiers out of a context.Context, if
// present, and attaches them to the logger.
func WithContext(logger zerolog.Logger, ctx context.Context) zerolog.Logger {
	out := logger

	if runID := ctx.Value(RunIDKey); runID != nil {
		out = out.With().Str("run_id", runID.(string)).Logger()
	}
	if assetID := ctx.Value(AssetIDKey); assetID != nil {
		out = out.With().Str("asset_id", assetID.(string)).Logger()
	}

	return out
}

func getVersion() string {
	if v := os.Getenv("SPECCADE_VERSION"); v != "" {
		return v
	}
	return "development"
}
