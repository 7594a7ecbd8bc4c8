package domain

import "time"

// PlaybackTransition is emitted only when the state machine accepts an
// action. from == to is permitted (e.g. a no-op action); DidChangeState
// reports whether the state actually moved.
type PlaybackTransition struct {
	From      PlaybackState
	To        PlaybackState
	Action    PlaybackAction
	Timestamp time.Time
}

func (t PlaybackTransition) DidChangeState() bool {
	return !t.From.Equal(t.To)
}
