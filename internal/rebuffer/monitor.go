// Package rebuffer implements the Rebuffering Monitor: per-episode stall
// bookkeeping with monotonic session counters, grounded on the same
// mutex-guarded counter idiom as the engine's stall escalation levels in
// streaming_fsm.go, minus the FFmpeg/priority specifics.
package rebuffer

import (
	"sync"
	"time"
)

// Clock returns the current time, injected so tests can control it.
type Clock func() time.Time

// Event describes one closed buffering episode.
type Event struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// State is a point-in-time read of the monitor's counters.
type State struct {
	IsBuffering     bool
	StartedAt       *time.Time
	Count           uint32
	TotalDuration   time.Duration
	CurrentDuration *time.Duration
}

// Monitor tracks buffering episodes for a single session. Safe for
// concurrent use.
type Monitor struct {
	clock Clock

	mu            sync.Mutex
	isBuffering   bool
	startedAt     time.Time
	count         uint32
	totalDuration time.Duration
	history       []Event
	starts        []time.Time
}

// New creates a Monitor using clock as its time source.
func New(clock Clock) *Monitor {
	if clock == nil {
		clock = time.Now
	}
	return &Monitor{clock: clock}
}

// BufferingStarted begins an episode. Idempotent: a second call while
// already buffering is a no-op and keeps the original start time.
func (m *Monitor) BufferingStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isBuffering {
		return
	}
	m.isBuffering = true
	m.startedAt = m.clock()
	m.starts = append(m.starts, m.startedAt)
}

// BufferingEnded closes the current episode, if any. It returns the closed
// Event and true, or the zero Event and false if not currently buffering.
func (m *Monitor) BufferingEnded() (Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isBuffering {
		return Event{}, false
	}
	end := m.clock()
	ev := Event{Start: m.startedAt, End: end, Duration: end.Sub(m.startedAt)}
	if ev.Duration < 0 {
		ev.Duration = 0
	}
	m.isBuffering = false
	m.count++
	m.totalDuration += ev.Duration
	m.history = append(m.history, ev)
	return ev, true
}

// State returns the current counters.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{
		IsBuffering:   m.isBuffering,
		Count:         m.count,
		TotalDuration: m.totalDuration,
	}
	if m.isBuffering {
		startedAt := m.startedAt
		s.StartedAt = &startedAt
		current := m.clock().Sub(m.startedAt)
		if current < 0 {
			current = 0
		}
		s.CurrentDuration = &current
	}
	return s
}

// EventsInLastMinute counts episodes whose Start falls within the last 60
// seconds of the injected clock, including one still in progress. Counting
// by start rather than end lets an alert rule that fires on BufferingStarted
// (before the episode closes) observe the episode it was just told about.
func (m *Monitor) EventsInLastMinute() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.clock().Add(-time.Minute)
	var n uint32
	for _, start := range m.starts {
		if start.After(cutoff) {
			n++
		}
	}
	return n
}

// Reset zeroes all counters and history.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isBuffering = false
	m.startedAt = time.Time{}
	m.count = 0
	m.totalDuration = 0
	m.history = nil
	m.starts = nil
}
