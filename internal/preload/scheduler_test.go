package preload

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/streamcore/playback/internal/domain"
)

type fakeFetcher struct {
	mu       sync.Mutex
	fetched  []string
	block    chan struct{}
	canceled int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{block: make(chan struct{})}
}

func (f *fakeFetcher) Fetch(ctx context.Context, source domain.Uri) error {
	select {
	case <-f.block:
	case <-ctx.Done():
		atomic.AddInt32(&f.canceled, 1)
		return ctx.Err()
	}
	f.mu.Lock()
	f.fetched = append(f.fetched, string(source))
	f.mu.Unlock()
	return nil
}

func (f *fakeFetcher) release() { close(f.block) }

func TestPreloadReplacesPriorTaskForSameID(t *testing.T) {
	fetcher := newFakeFetcher()
	s := New(fetcher, 1000)

	s.Preload(domain.PreloadableVideo{ID: "v1", Source: "media://v1a"}, domain.PriorityImmediate)
	s.Preload(domain.PreloadableVideo{ID: "v1", Source: "media://v1b"}, domain.PriorityImmediate)

	if got := s.ActiveCount(); got != 1 {
		t.Fatalf("active count = %d, want 1 (at most one task per id)", got)
	}

	fetcher.release()
	time.Sleep(50 * time.Millisecond)

	if got := s.ActiveCount(); got != 0 {
		t.Fatalf("active count after completion = %d, want 0", got)
	}
}

func TestCancelIsNoOpForUnknownID(t *testing.T) {
	s := New(newFakeFetcher(), 1000)
	s.Cancel("nonexistent")
}

func TestCancelAllStopsEverything(t *testing.T) {
	fetcher := newFakeFetcher()
	s := New(fetcher, 1000)

	s.Preload(domain.PreloadableVideo{ID: "v1", Source: "media://v1"}, domain.PriorityImmediate)
	s.Preload(domain.PreloadableVideo{ID: "v2", Source: "media://v2"}, domain.PriorityImmediate)

	if got := s.ActiveCount(); got != 2 {
		t.Fatalf("active count = %d, want 2", got)
	}

	s.CancelAll()
	time.Sleep(50 * time.Millisecond)

	if got := atomic.LoadInt32(&fetcher.canceled); got != 2 {
		t.Fatalf("canceled fetches = %d, want 2", got)
	}
}

func TestImmediatePriorityBypassesAdmissionPacing(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.release()
	s := New(fetcher, 0.001) // one burst token, then effectively closed for non-Immediate

	done := make(chan struct{})
	go func() {
		s.Preload(domain.PreloadableVideo{ID: "v1", Source: "media://v1"}, domain.PriorityImmediate)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Preload call should not block on admission for Immediate priority")
	}
}
