package ports

import (
	"context"

	"github.com/streamcore/playback/internal/domain"
)

// PlayerAdapter is the narrow capability contract for the platform player:
// native frame decoding and rendering stay outside the core. The core
// drives it with the commands below and expects the adapter to push the
// corresponding DidXxx actions back into the state machine as they occur.
type PlayerAdapter interface {
	Load(ctx context.Context, source domain.Uri) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, seconds float64) error

	Position() float64
	Duration() float64
	Volume() float64
	Muted() bool
	Rate() float64
}
