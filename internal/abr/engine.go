package abr

import (
	"github.com/streamcore/playback/internal/domain"
	"github.com/streamcore/playback/internal/domain/ports"
)

// Engine folds a pure BitrateStrategy's yes/no decisions into the full
// BitrateDecision union (Maintain/Upgrade/Downgrade), so callers get a
// single value to act on regardless of which branch fired. The engine
// itself holds no session state; every method is a pure function of its
// arguments.
type Engine struct {
	strategy ports.BitrateStrategy
}

// New creates an Engine around the given strategy. A nil strategy defaults
// to Conservative.
func New(strategy ports.BitrateStrategy) *Engine {
	if strategy == nil {
		strategy = Conservative{}
	}
	return &Engine{strategy: strategy}
}

// InitialBitrate delegates to the strategy.
func (e *Engine) InitialBitrate(levels []domain.BitrateLevel, quality domain.NetworkQuality) domain.BitrateLevel {
	return e.strategy.InitialBitrate(levels, quality)
}

// Decide evaluates downgrade first, then upgrade, then falls back to
// Maintain(current). Downgrade takes priority: a rebuffering or
// network-degraded session should not be offered an upgrade in the same
// evaluation.
func (e *Engine) Decide(current domain.BitrateLevel, levels []domain.BitrateLevel, bufferHealth, rebufferingRatio float64, quality domain.NetworkQuality) domain.BitrateDecision {
	if to, reason, ok := e.strategy.ShouldDowngrade(current, levels, rebufferingRatio, quality); ok {
		return domain.Downgrade(to, reason)
	}
	if to, ok := e.strategy.ShouldUpgrade(current, levels, bufferHealth, quality); ok {
		return domain.Upgrade(to)
	}
	return domain.Maintain(current)
}
