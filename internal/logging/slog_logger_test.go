package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/streamcore/playback/internal/domain"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestLogDropsEntriesBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(newTestLogger(&buf), domain.LogWarning)

	l.Log(domain.LogEntry{Level: domain.LogInfo, Message: "should be dropped"})
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged, got %q", buf.String())
	}

	l.Log(domain.LogEntry{Level: domain.LogWarning, Message: "should appear"})
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected warning entry logged, got %q", buf.String())
	}
}

func TestLogForwardsContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(newTestLogger(&buf), domain.LogDebug)

	l.Log(domain.LogEntry{
		Level:   domain.LogInfo,
		Message: "bitrate changed",
		Context: domain.LogContext{
			Subsystem:     "abr",
			CorrelationID: "corr-1",
			SessionID:     "sess-1",
		},
	})

	out := buf.String()
	for _, want := range []string{"subsystem=abr", "correlation_id=corr-1", "session_id=sess-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]domain.LogLevel{
		"debug":   domain.LogDebug,
		"info":    domain.LogInfo,
		"warn":    domain.LogWarning,
		"warning": domain.LogWarning,
		"error":   domain.LogError,
		"":        domain.LogInfo,
		"bogus":   domain.LogInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
