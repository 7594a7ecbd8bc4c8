// Package startup implements the Startup Time Tracker: once-only
// time-to-first-frame measurement.
package startup

import (
	"sync"
	"time"
)

// Clock returns the current time, injected so tests can control it.
type Clock func() time.Time

// Measurement is a point-in-time read of the tracker.
type Measurement struct {
	Start            time.Time
	FirstFrame       *time.Time
	TimeToFirstFrame *time.Duration
	IsComplete       bool
}

// Tracker records the load-start and first-frame timestamps for a single
// session. Safe for concurrent use.
type Tracker struct {
	clock Clock

	mu         sync.Mutex
	hasStart   bool
	start      time.Time
	hasFrame   bool
	firstFrame time.Time
}

// New creates a Tracker using clock as its time source.
func New(clock Clock) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{clock: clock}
}

// RecordLoadStart sets the start time once; subsequent calls are ignored.
func (t *Tracker) RecordLoadStart() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hasStart {
		return
	}
	t.hasStart = true
	t.start = t.clock()
}

// RecordFirstFrame sets the first-frame time once, and only if a start has
// already been recorded. Subsequent calls, and calls before a start, are
// ignored.
func (t *Tracker) RecordFirstFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.hasStart || t.hasFrame {
		return
	}
	t.hasFrame = true
	t.firstFrame = t.clock()
}

// Measurement returns the current reading.
func (t *Tracker) Measurement() Measurement {
	t.mu.Lock()
	defer t.mu.Unlock()

	var m Measurement
	if t.hasStart {
		m.Start = t.start
	}
	if t.hasFrame {
		firstFrame := t.firstFrame
		m.FirstFrame = &firstFrame
		if t.hasStart {
			ttff := firstFrame.Sub(t.start)
			if ttff < 0 {
				ttff = 0
			}
			m.TimeToFirstFrame = &ttff
			m.IsComplete = true
		}
	}
	return m
}

// Reset clears all recorded timestamps.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hasStart = false
	t.start = time.Time{}
	t.hasFrame = false
	t.firstFrame = time.Time{}
}
