// Package logger configures the process-wide structured logger used by the
// engine and CLI. Defaults to a text handler on stderr; long-running batch
// runs can redirect to a rotated file.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls handler, level, and destination of the logger.
type Config struct {
	Level      string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format     string `yaml:"format,omitempty"` // text, json
	Output     string `yaml:"output,omitempty"` // stderr, stdout, file
	FilePath   string `yaml:"file_path,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}

// Init installs the default slog logger for the process.
func Init(cfg Config) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var writer io.Writer
	switch cfg.Output {
	case "stdout":
		writer = os.Stdout
	case "file":
		path := cfg.FilePath
		if path == "" {
			path = "logs/graphsurge.log"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			writer = os.Stderr
		} else {
			maxSize := cfg.MaxSizeMB
			if maxSize == 0 {
				maxSize = 100
			}
			writer = &lumberjack.Logger{
				Filename:   path,
				MaxSize:    maxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
			}
		}
	default:
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}
