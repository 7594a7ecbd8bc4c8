package analyticsmongo

import (
	"testing"

	"github.com/streamcore/playback/internal/domain"
)

func TestToDocCarriesKindSpecificFields(t *testing.T) {
	e := domain.PlaybackEvent{Kind: domain.AnalyticsSeek, SeekFrom: 10, SeekTo: 42, Position: 42}
	doc := toDoc(e)

	if doc.Kind != int(domain.AnalyticsSeek) {
		t.Errorf("Kind = %d, want %d", doc.Kind, domain.AnalyticsSeek)
	}
	if doc.SeekFrom != 10 || doc.SeekTo != 42 {
		t.Errorf("seek fields not carried: %+v", doc)
	}
	if doc.RecordedAt == 0 {
		t.Error("expected RecordedAt to be stamped")
	}
}

func TestRecordDropsOldestWhenQueueFull(t *testing.T) {
	s := &Sink{queue: make(chan domain.PlaybackEvent, 1)}
	// No background run() goroutine started: this exercises Record's
	// own drop-oldest logic against a full, undrained queue.
	s.Record(domain.PlaybackEvent{Kind: domain.AnalyticsPlay, Position: 1})
	s.Record(domain.PlaybackEvent{Kind: domain.AnalyticsPause, Position: 2})

	select {
	case got := <-s.queue:
		if got.Kind != domain.AnalyticsPause {
			t.Errorf("expected the newest event to survive, got Kind=%v", got.Kind)
		}
	default:
		t.Fatal("expected one event queued")
	}
}
