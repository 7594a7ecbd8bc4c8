package domain

// BitrateLevel is one rung of an encoded rendition ladder. Levels are
// ordered by BitsPerSecond; the ladder passed to the ABR engine must be
// sorted ascending.
type BitrateLevel struct {
	BitsPerSecond uint32
	Label         string
}

// StandardLadder is the default bitrate ladder (360p through 4K) used when
// no content-specific ladder is supplied.
func StandardLadder() []BitrateLevel {
	return []BitrateLevel{
		{BitsPerSecond: 800_000, Label: "360p"},
		{BitsPerSecond: 1_500_000, Label: "480p"},
		{BitsPerSecond: 3_000_000, Label: "720p"},
		{BitsPerSecond: 6_000_000, Label: "1080p"},
		{BitsPerSecond: 16_000_000, Label: "4K"},
	}
}

// DowngradeReason explains why ShouldDowngrade recommended a lower level.
type DowngradeReason int

const (
	DowngradeRebuffering DowngradeReason = iota
	DowngradeNetworkDegraded
	DowngradeMemoryPressure
)

func (r DowngradeReason) String() string {
	switch r {
	case DowngradeRebuffering:
		return "rebuffering"
	case DowngradeNetworkDegraded:
		return "network_degraded"
	case DowngradeMemoryPressure:
		return "memory_pressure"
	default:
		return "unknown"
	}
}

// DecisionKind tags a BitrateDecision variant.
type DecisionKind int

const (
	DecisionMaintain DecisionKind = iota
	DecisionUpgrade
	DecisionDowngrade
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionMaintain:
		return "maintain"
	case DecisionUpgrade:
		return "upgrade"
	case DecisionDowngrade:
		return "downgrade"
	default:
		return "unknown"
	}
}

// BitrateDecision is the outcome of an ABR evaluation: Maintain(bps),
// Upgrade(to), or Downgrade(to, reason).
type BitrateDecision struct {
	Kind   DecisionKind
	Target BitrateLevel
	Reason DowngradeReason
}

func Maintain(current BitrateLevel) BitrateDecision {
	return BitrateDecision{Kind: DecisionMaintain, Target: current}
}

func Upgrade(to BitrateLevel) BitrateDecision {
	return BitrateDecision{Kind: DecisionUpgrade, Target: to}
}

func Downgrade(to BitrateLevel, reason DowngradeReason) BitrateDecision {
	return BitrateDecision{Kind: DecisionDowngrade, Target: to, Reason: reason}
}
