package ports

import "github.com/streamcore/playback/internal/domain"

// BitrateStrategy is the pluggable ABR decision contract. It is pure: no
// field may be mutated by any method, and every result must be a member
// of the levels slice passed in. The ABR Engine (internal/abr) drives one
// of these and folds the result into a BitrateDecision.
type BitrateStrategy interface {
	// InitialBitrate picks the starting rung for newly observed network
	// quality.
	InitialBitrate(levels []domain.BitrateLevel, quality domain.NetworkQuality) domain.BitrateLevel

	// ShouldUpgrade reports the next rung up, if buffer health and network
	// quality justify it.
	ShouldUpgrade(current domain.BitrateLevel, levels []domain.BitrateLevel, bufferHealth float64, quality domain.NetworkQuality) (domain.BitrateLevel, bool)

	// ShouldDowngrade reports the next rung down and why, if rebuffering or
	// network quality justify it.
	ShouldDowngrade(current domain.BitrateLevel, levels []domain.BitrateLevel, rebufferingRatio float64, quality domain.NetworkQuality) (domain.BitrateLevel, domain.DowngradeReason, bool)
}
