// Package abr implements the Adaptive Bitrate Engine. A strategy is a
// pure, stateless decision function over a bitrate ladder, quality signal,
// and buffer/rebuffering health: it never mutates beyond the value it
// returns. Conservative is the default policy.
package abr

import "github.com/streamcore/playback/internal/domain"

// Conservative is the default ABR strategy: quality-gated initial pick,
// cautious upgrades, and prompt downgrades on rebuffering or poor network.
// It implements ports.BitrateStrategy.
type Conservative struct{}

// InitialBitrate picks a starting rung from the ladder based on observed
// network quality.
func (Conservative) InitialBitrate(levels []domain.BitrateLevel, quality domain.NetworkQuality) domain.BitrateLevel {
	if len(levels) == 0 {
		return domain.BitrateLevel{}
	}
	n := len(levels)
	switch quality {
	case domain.NetworkOffline, domain.NetworkPoor:
		return levels[0]
	case domain.NetworkFair:
		return levels[n/3]
	case domain.NetworkGood:
		idx := 2 * n / 3
		if idx > n-1 {
			idx = n - 1
		}
		return levels[idx]
	default: // Excellent
		return levels[n-1]
	}
}

// ShouldUpgrade recommends the next rung up when the buffer is healthy and
// the network is good or better. It never returns a level below current,
// and never one outside levels.
func (Conservative) ShouldUpgrade(current domain.BitrateLevel, levels []domain.BitrateLevel, bufferHealth float64, quality domain.NetworkQuality) (domain.BitrateLevel, bool) {
	idx := indexOf(levels, current)
	if idx < 0 || idx >= len(levels)-1 {
		return domain.BitrateLevel{}, false
	}
	if bufferHealth >= 0.7 && quality >= domain.NetworkGood {
		return levels[idx+1], true
	}
	return domain.BitrateLevel{}, false
}

// ShouldDowngrade recommends the next rung down when rebuffering or the
// network has degraded. Rebuffering takes priority as the reported reason
// when both conditions hold.
func (Conservative) ShouldDowngrade(current domain.BitrateLevel, levels []domain.BitrateLevel, rebufferingRatio float64, quality domain.NetworkQuality) (domain.BitrateLevel, domain.DowngradeReason, bool) {
	idx := indexOf(levels, current)
	if idx <= 0 {
		return domain.BitrateLevel{}, 0, false
	}
	switch {
	case rebufferingRatio >= 0.05:
		return levels[idx-1], domain.DowngradeRebuffering, true
	case quality <= domain.NetworkPoor:
		return levels[idx-1], domain.DowngradeNetworkDegraded, true
	}
	return domain.BitrateLevel{}, 0, false
}

// indexOf locates current within levels by value. Returns -1 if not found.
func indexOf(levels []domain.BitrateLevel, current domain.BitrateLevel) int {
	for i, l := range levels {
		if l == current {
			return i
		}
	}
	return -1
}
