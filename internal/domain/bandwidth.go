package domain

import "time"

// BandwidthSample is one transfer observation pushed into the estimator.
// Samples with non-positive duration or zero bytes are invalid;
// bandwidth.Estimator.Record drops them without recording.
type BandwidthSample struct {
	Bytes           uint64
	DurationSeconds float64
	Timestamp       time.Time
}

// Valid reports whether the sample has positive size and duration.
func (s BandwidthSample) Valid() bool {
	return s.Bytes > 0 && s.DurationSeconds > 0
}

// BitsPerSecond is the instantaneous throughput implied by this sample.
func (s BandwidthSample) BitsPerSecond() float64 {
	if s.DurationSeconds <= 0 {
		return 0
	}
	return float64(s.Bytes) * 8 / s.DurationSeconds
}

// BandwidthEstimate is the smoothed read derived from the retained sample
// window.
type BandwidthEstimate struct {
	AvgBps      float64
	PeakBps     float64
	MinBps      float64
	Stability   float64
	Confidence  float64
	SampleCount int
}

// RecommendedMaxBitrate is 70% of the window's minimum throughput, rounded
// to the nearest integer bps.
func (e BandwidthEstimate) RecommendedMaxBitrate() uint32 {
	v := e.MinBps * 0.7
	if v < 0 {
		return 0
	}
	return uint32(v + 0.5)
}

// IsReliable requires stability and confidence both at least 0.7 and at
// least 3 retained samples.
func (e BandwidthEstimate) IsReliable() bool {
	return e.Stability >= 0.7 && e.Confidence >= 0.7 && e.SampleCount >= 3
}
