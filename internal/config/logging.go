package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/thalesfsp/pushindexer/internal/shared"
)

// NewLogger builds the root logger from the log settings. Output goes to w, or
// stdout when w is nil.
func NewLogger(s LogSettings, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if w == nil {
		w = os.Stdout
	}

	if s.Format == LogFormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(parseLevel(s.Level)).
		With().
		Timestamp().
		Str("service", shared.Name).
		Logger()
}

// Log logs the resolved settings, masking credentials.
func Log(logger zerolog.Logger, s *Settings) {
	password := ""
	if s.Elasticsearch.Password != "" {
		password = "****"
	}

	logger.Info().
		Str("es.host", s.Elasticsearch.Host).
		Str("es.username", s.Elasticsearch.Username).
		Str("es.password", password).
		Str("index", s.Index).
		Bool("strict_bulk", s.StrictBulk).
		Bool("skip_ping", s.SkipPing).
		Str("refresh", s.Refresh).
		Msg("config resolved")
}

// parseLevel supports string-only levels.
func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
