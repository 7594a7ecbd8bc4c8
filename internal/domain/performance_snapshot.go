package domain

import "time"

// PerformanceSnapshot is a point-in-time read of a monitoring session's
// counters and cached external state.
type PerformanceSnapshot struct {
	Timestamp               time.Time
	SessionID               string
	TimeToFirstFrame        *time.Duration
	IsBuffering             bool
	BufferingCount          uint32
	TotalBufferingDuration  time.Duration
	CurrentBufferingDuration *time.Duration
	CurrentBitrate          *uint32
	NetworkQuality          NetworkQuality
	MemoryMB                float64
	MemoryPressure          MemoryPressureLevel
	SessionStart            time.Time
}

// RebufferingRatio is total buffering time over session duration, zero when
// the denominator is zero.
func (s PerformanceSnapshot) RebufferingRatio() float64 {
	denom := s.Timestamp.Sub(s.SessionStart).Seconds()
	if denom <= 0 {
		return 0
	}
	return s.TotalBufferingDuration.Seconds() / denom
}

// IsHealthy reports whether the session currently reads as good QoE: low
// rebuffering ratio, normal memory pressure, and (if known) a fast startup.
func (s PerformanceSnapshot) IsHealthy() bool {
	if s.RebufferingRatio() >= 0.05 {
		return false
	}
	if s.MemoryPressure != MemoryNormal {
		return false
	}
	if s.TimeToFirstFrame != nil && *s.TimeToFirstFrame >= 3*time.Second {
		return false
	}
	return true
}
