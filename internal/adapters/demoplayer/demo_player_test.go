package demoplayer

import (
	"context"
	"testing"
)

func TestAdvanceOnlyMovesPositionWhilePlaying(t *testing.T) {
	p := New()
	p.Load(context.Background(), "https://example.com/a.mp4")

	p.Advance(5)
	if got := p.Position(); got != 0 {
		t.Fatalf("Position() = %v, want 0 while paused", got)
	}

	p.Play(context.Background())
	p.Advance(5)
	if got := p.Position(); got != 5 {
		t.Fatalf("Position() = %v, want 5 after advancing while playing", got)
	}

	p.Pause(context.Background())
	p.Advance(5)
	if got := p.Position(); got != 5 {
		t.Fatalf("Position() = %v, want unchanged after pausing", got)
	}
}

func TestSeekSetsPositionDirectly(t *testing.T) {
	p := New()
	p.Load(context.Background(), "https://example.com/a.mp4")
	p.Seek(context.Background(), 42)
	if got := p.Position(); got != 42 {
		t.Fatalf("Position() = %v, want 42", got)
	}
}
