package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/partners/internal/config"
)

// NewLogger creates a structured zerolog.Logger writing to stdout, tagged with
// the configured service name.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return New(os.Stdout, cfg.ServiceName, cfg.LogLevel)
}

// New builds a logger on w. An unknown level falls back to info.
func New(w io.Writer, service, levelName string) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp()

	if service != "" {
		ctx = ctx.Str("service", service)
	}

	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(levelName)
	if err != nil || levelName == "" {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
