// Package bandwidth implements the Bandwidth Estimator: a bounded ring of
// transfer samples reduced to a smoothed BandwidthEstimate on every push.
// It keeps the full retained window instead of a single EMA so it can
// report peak/min/stability over the recent history, not just an average.
package bandwidth

import (
	"math"

	"github.com/streamcore/playback/internal/domain"
)

// DefaultMaxSamples is the window capacity used when none is configured.
const DefaultMaxSamples = 30

// Estimator maintains a bounded deque of samples and recomputes the
// derived estimate on every push. It has no suspension points: it is a
// synchronous function over in-memory samples, so it needs no internal
// lock — callers that share an Estimator across goroutines must guard it
// externally.
type Estimator struct {
	maxSamples int
	samples    []domain.BandwidthSample
}

// New creates an Estimator with the given window capacity. maxSamples <= 0
// falls back to DefaultMaxSamples.
func New(maxSamples int) *Estimator {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &Estimator{maxSamples: maxSamples}
}

// Record appends a sample, evicting the oldest if the window is full.
// Invalid samples (zero bytes or non-positive duration) are silently
// dropped.
func (e *Estimator) Record(sample domain.BandwidthSample) {
	if !sample.Valid() {
		return
	}
	e.samples = append(e.samples, sample)
	if len(e.samples) > e.maxSamples {
		e.samples = e.samples[len(e.samples)-e.maxSamples:]
	}
}

// SampleCount returns the number of samples currently retained.
func (e *Estimator) SampleCount() int {
	return len(e.samples)
}

// Clear empties the window.
func (e *Estimator) Clear() {
	e.samples = nil
}

// CurrentEstimate derives avg/peak/min/stability/confidence from the
// retained window.
func (e *Estimator) CurrentEstimate() domain.BandwidthEstimate {
	n := len(e.samples)
	if n == 0 {
		return domain.BandwidthEstimate{}
	}

	rates := make([]float64, n)
	var sum float64
	peak := math.Inf(-1)
	min := math.Inf(1)
	for i, s := range e.samples {
		bps := s.BitsPerSecond()
		rates[i] = bps
		sum += bps
		if bps > peak {
			peak = bps
		}
		if bps < min {
			min = bps
		}
	}
	avg := sum / float64(n)

	stability := 1.0
	if n > 1 && avg > 0 {
		var variance float64
		for _, r := range rates {
			d := r - avg
			variance += d * d
		}
		variance /= float64(n)
		stddev := math.Sqrt(variance)
		cv := stddev / avg
		stability = 1 - cv
		if stability < 0 {
			stability = 0
		}
		if stability > 1 {
			stability = 1
		}
	}

	return domain.BandwidthEstimate{
		AvgBps:      avg,
		PeakBps:     peak,
		MinBps:      min,
		Stability:   stability,
		Confidence:  confidence(n),
		SampleCount: n,
	}
}

// confidence is a saturating function of sample count: below 0.5 for a
// single sample, at least 0.7 by 10 samples, asymptotic to 1.0 beyond that.
func confidence(n int) float64 {
	if n <= 0 {
		return 0
	}
	c := 1 - math.Exp(-float64(n)/6.0)
	if n == 1 && c >= 0.5 {
		c = 0.49
	}
	return c
}
