package buffermem

import (
	"sync"

	"github.com/streamcore/playback/internal/domain"
	"github.com/streamcore/playback/internal/pubsub"
)

const configBufferSize = 4

// BufferManager publishes the active BufferConfiguration and notifies
// subscribers whenever the profile changes.
type BufferManager struct {
	mu      sync.Mutex
	current domain.BufferConfiguration

	configs *pubsub.Hub[domain.BufferConfiguration]
}

// NewBufferManager creates a BufferManager starting at the given profile.
func NewBufferManager(initial domain.BufferProfile) *BufferManager {
	return &BufferManager{
		current: domain.DefaultBufferConfiguration(initial),
		configs: pubsub.New[domain.BufferConfiguration](configBufferSize, pubsub.DropOldest, nil),
	}
}

// Current returns the active configuration.
func (b *BufferManager) Current() domain.BufferConfiguration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// SetProfile switches to profile's preset configuration and publishes it,
// if different from the current one.
func (b *BufferManager) SetProfile(profile domain.BufferProfile) {
	next := domain.DefaultBufferConfiguration(profile)

	b.mu.Lock()
	if b.current == next {
		b.mu.Unlock()
		return
	}
	b.current = next
	b.mu.Unlock()

	b.configs.Publish(next)
}

// Subscribe returns a subscription that replays the current configuration,
// then receives every subsequent change.
func (b *BufferManager) Subscribe() *pubsub.Subscription[domain.BufferConfiguration] {
	return b.configs.SubscribeWithReplay(b.Current())
}
