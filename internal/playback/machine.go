// Package playback implements the Playback State Machine: the authoritative
// model of the player lifecycle. It is the generalized descendant of the
// engine's per-job streaming FSM (StreamJob.run in the HLS layer), minus the
// FFmpeg/torrent specifics: a mutex-guarded current state, an explicit
// transition table, and broadcast of both the state and the transition
// stream.
package playback

import (
	"sync"
	"time"

	"github.com/streamcore/playback/internal/domain"
	"github.com/streamcore/playback/internal/metrics"
	"github.com/streamcore/playback/internal/pubsub"
)

const (
	stateBufferSize      = 4
	transitionBufferSize = 16
)

// Clock returns the current time. Production wiring injects time.Now;
// tests inject a stub so transition timestamps are deterministic.
type Clock func() time.Time

// Machine owns the current PlaybackState and validates actions against the
// transition table in transitions.go. All methods are safe for concurrent
// use by multiple callers.
type Machine struct {
	clock Clock

	mu    sync.Mutex
	state domain.PlaybackState

	states      *pubsub.Hub[domain.PlaybackState]
	transitions *pubsub.Hub[domain.PlaybackTransition]
}

// New creates a Machine starting in the Idle state.
func New(clock Clock) *Machine {
	if clock == nil {
		clock = time.Now
	}
	return &Machine{
		clock:       clock,
		state:       domain.Idle(),
		states:      pubsub.New[domain.PlaybackState](stateBufferSize, pubsub.DropOldest, nil),
		transitions: pubsub.New[domain.PlaybackTransition](transitionBufferSize, pubsub.DropOldest, nil),
	}
}

// CurrentState returns the machine's current state.
func (m *Machine) CurrentState() domain.PlaybackState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CanPerform reports whether Send(action) would currently be accepted,
// without mutating state.
func (m *Machine) CanPerform(action domain.PlaybackAction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := transition(m.state, action)
	return ok
}

// Send validates and applies action. It returns the resulting transition
// and true when accepted; on rejection it returns the zero transition and
// false, leaving the state unchanged. An invalid action for the current
// state is a routine outcome, not an error.
func (m *Machine) Send(action domain.PlaybackAction) (domain.PlaybackTransition, bool) {
	m.mu.Lock()
	from := m.state
	to, ok := transition(from, action)
	if !ok {
		m.mu.Unlock()
		metrics.TransitionRejectionsTotal.WithLabelValues(from.Kind.String(), action.Kind.String()).Inc()
		return domain.PlaybackTransition{}, false
	}
	m.state = to
	m.mu.Unlock()

	metrics.StateTransitionsTotal.WithLabelValues(from.Kind.String(), to.Kind.String()).Inc()

	t := domain.PlaybackTransition{
		From:      from,
		To:        to,
		Action:    action,
		Timestamp: m.clock(),
	}
	m.states.Publish(to)
	m.transitions.Publish(t)
	return t, true
}

// SubscribeState returns a subscription that immediately replays the
// current state, then receives every subsequent one.
func (m *Machine) SubscribeState() *pubsub.Subscription[domain.PlaybackState] {
	return m.states.SubscribeWithReplay(m.CurrentState())
}

// SubscribeTransitions returns a subscription over newly emitted
// transitions. Unlike SubscribeState, it does not replay history.
func (m *Machine) SubscribeTransitions() *pubsub.Subscription[domain.PlaybackTransition] {
	return m.transitions.Subscribe()
}
