package logging

import (
	"io"
	"os"
	"time"

	"github.com/Domenick1991/hallbooking/config"
	"github.com/rs/zerolog"
)

// Log categories carried in the log_type field.
const (
	TypeBooking = "booking"
	TypePayment = "payment"
	TypeAdmin   = "admin"
	TypeHTTP    = "http"
)

// New builds the root logger. Console output is meant for local runs.
func New(cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Category returns a child logger tagged with log_type.
func Category(logger zerolog.Logger, logType string) zerolog.Logger {
	return logger.With().Str("log_type", logType).Logger()
}
