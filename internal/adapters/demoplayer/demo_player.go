// Package demoplayer implements ports.PlayerAdapter without any real
// decoding or rendering pipeline, standing in for the platform player in
// the demo binary: it tracks a synthetic playhead and nothing else, just
// enough to exercise the orchestrator end to end.
package demoplayer

import (
	"context"
	"sync"

	"github.com/streamcore/playback/internal/domain"
)

// Player is a synthetic PlayerAdapter: Load/Play/Pause/Seek always succeed,
// and Position advances only while playing, driven by the caller calling
// Advance.
type Player struct {
	mu       sync.Mutex
	source   domain.Uri
	position float64
	duration float64
	playing  bool
	volume   float64
	muted    bool
	rate     float64
}

// New creates a Player with a default volume of 1 and rate of 1.
func New() *Player {
	return &Player{volume: 1, rate: 1}
}

func (p *Player) Load(ctx context.Context, source domain.Uri) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = source
	p.position = 0
	p.duration = 0
	p.playing = false
	return nil
}

func (p *Player) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
	return nil
}

func (p *Player) Pause(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	return nil
}

func (p *Player) Seek(ctx context.Context, seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = seconds
	return nil
}

func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *Player) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

// Advance moves the synthetic playhead forward by deltaSeconds if currently
// playing. A real PlayerAdapter pushes DidReachEnd/DidStartBuffering on its
// own; the demo binary calls this from a ticker to approximate that.
func (p *Player) Advance(deltaSeconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.position += deltaSeconds
	}
}
