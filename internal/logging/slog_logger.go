// Package logging adapts the core's Logger capability onto log/slog.
package logging

import (
	"context"
	"log/slog"

	"github.com/streamcore/playback/internal/domain"
)

// SlogLogger implements ports.Logger by forwarding entries at or above a
// configured minimum level to an underlying *slog.Logger. Entries below
// the minimum are dropped; the core never checks the level itself before
// calling Log.
type SlogLogger struct {
	logger *slog.Logger
	min    domain.LogLevel
}

// New wraps logger, filtering out entries below min.
func New(logger *slog.Logger, min domain.LogLevel) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger, min: min}
}

// Log implements ports.Logger.
func (l *SlogLogger) Log(entry domain.LogEntry) {
	if entry.Level < l.min {
		return
	}

	attrs := make([]any, 0, 8)
	if entry.Context.Subsystem != "" {
		attrs = append(attrs, slog.String("subsystem", entry.Context.Subsystem))
	}
	if entry.Context.Category != "" {
		attrs = append(attrs, slog.String("category", entry.Context.Category))
	}
	if entry.Context.CorrelationID != "" {
		attrs = append(attrs, slog.String("correlation_id", entry.Context.CorrelationID))
	}
	if entry.Context.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", entry.Context.SessionID))
	}
	for k, v := range entry.Context.Metadata {
		attrs = append(attrs, slog.String(k, v))
	}

	l.logger.Log(context.Background(), toSlogLevel(entry.Level), entry.Message, attrs...)
}

func toSlogLevel(l domain.LogLevel) slog.Level {
	switch l {
	case domain.LogDebug:
		return slog.LevelDebug
	case domain.LogWarning:
		return slog.LevelWarn
	case domain.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a config string to a domain.LogLevel, defaulting to Info.
func ParseLevel(raw string) domain.LogLevel {
	switch raw {
	case "debug":
		return domain.LogDebug
	case "warn", "warning":
		return domain.LogWarning
	case "error":
		return domain.LogError
	default:
		return domain.LogInfo
	}
}
