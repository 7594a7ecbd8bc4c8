package buffermem

import (
	"testing"
	"time"

	"github.com/streamcore/playback/internal/domain"
)

func TestBufferManagerSetProfilePublishesOnChange(t *testing.T) {
	b := NewBufferManager(domain.BufferDefault)
	sub := b.Subscribe()
	defer sub.Unsubscribe()

	select {
	case cfg := <-sub.C:
		if cfg.Profile != domain.BufferDefault {
			t.Fatalf("replayed config = %+v, want Default", cfg)
		}
	case <-time.After(time.Second):
		t.Fatal("expected replay of current configuration")
	}

	b.SetProfile(domain.BufferAggressive)
	select {
	case cfg := <-sub.C:
		if cfg.Profile != domain.BufferAggressive || cfg.PreferredForwardBufferDuration != 60*time.Second {
			t.Fatalf("config after SetProfile = %+v, want Aggressive/60s", cfg)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a published configuration after SetProfile")
	}
}

func TestBufferManagerNoOpOnSameProfile(t *testing.T) {
	b := NewBufferManager(domain.BufferDefault)
	sub := b.Subscribe()
	defer sub.Unsubscribe()
	<-sub.C // drain replay

	b.SetProfile(domain.BufferDefault)
	select {
	case cfg := <-sub.C:
		t.Fatalf("expected no publication for a no-op SetProfile, got %+v", cfg)
	case <-time.After(100 * time.Millisecond):
	}
}
