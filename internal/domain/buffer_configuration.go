package domain

import "time"

// BufferProfile selects a preset forward-buffer target.
type BufferProfile int

const (
	BufferMinimal BufferProfile = iota
	BufferDefault
	BufferAggressive
)

func (p BufferProfile) String() string {
	switch p {
	case BufferMinimal:
		return "minimal"
	case BufferDefault:
		return "default"
	case BufferAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// BufferConfiguration is published by the Buffer Manager whenever the
// preferred forward-buffer duration changes.
type BufferConfiguration struct {
	Profile                        BufferProfile
	PreferredForwardBufferDuration time.Duration
}

// DefaultBufferConfiguration returns the preset duration for a profile.
func DefaultBufferConfiguration(profile BufferProfile) BufferConfiguration {
	switch profile {
	case BufferMinimal:
		return BufferConfiguration{Profile: profile, PreferredForwardBufferDuration: 10 * time.Second}
	case BufferAggressive:
		return BufferConfiguration{Profile: profile, PreferredForwardBufferDuration: 60 * time.Second}
	default:
		return BufferConfiguration{Profile: BufferDefault, PreferredForwardBufferDuration: 30 * time.Second}
	}
}
