package ports

import "github.com/streamcore/playback/internal/domain"

// NetworkObserver pushes NetworkQuality changes into the Performance
// Monitor. The core never polls; collaborators push.
type NetworkObserver interface {
	Subscribe(onChange func(domain.NetworkQuality)) (unsubscribe func())
}
