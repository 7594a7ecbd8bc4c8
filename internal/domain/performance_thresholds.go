package domain

import "time"

// PerformanceThresholds tunes when the Performance Monitor crosses from
// "fine" to "alert-worthy". DefaultThresholds mirrors typical OTT playback
// targets; StreamingThresholds is the stricter live/low-latency profile.
type PerformanceThresholds struct {
	WarningStartupTime          time.Duration
	CriticalStartupTime         time.Duration
	MaxBufferingEventsPerMinute uint32
	MaxBufferingDuration        time.Duration
	CriticalRebufferingRatio    float64
}

func DefaultThresholds() PerformanceThresholds {
	return PerformanceThresholds{
		WarningStartupTime:          2 * time.Second,
		CriticalStartupTime:         4 * time.Second,
		MaxBufferingEventsPerMinute: 3,
		MaxBufferingDuration:        10 * time.Second,
		CriticalRebufferingRatio:    0.08,
	}
}

// StreamingThresholds is a stricter profile appropriate for live/low-latency
// streaming, where startup and rebuffering tolerances are tighter.
func StreamingThresholds() PerformanceThresholds {
	return PerformanceThresholds{
		WarningStartupTime:          1 * time.Second,
		CriticalStartupTime:         2 * time.Second,
		MaxBufferingEventsPerMinute: 2,
		MaxBufferingDuration:        5 * time.Second,
		CriticalRebufferingRatio:    0.05,
	}
}
