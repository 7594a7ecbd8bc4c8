// Package buffermem implements the Memory Monitor and Buffer Manager: a
// periodic poll loop that classifies available-memory pressure with
// hysteresis, so it stops raising alarms once past a warning level and
// only clears once comfortably below it again, avoiding flapping at the
// boundary. Crossing a threshold invokes registered cleanup callbacks.
package buffermem

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/streamcore/playback/internal/domain"
	"github.com/streamcore/playback/internal/domain/ports"
	"github.com/streamcore/playback/internal/metrics"
	"github.com/streamcore/playback/internal/pubsub"
)

const stateBufferSize = 4

// Thresholds controls when MemoryMonitor classifies pressure. WarningRatio
// and CriticalRatio are available/total fractions; crossing below them
// raises the corresponding level. The ratio must clear the threshold by the
// extra HysteresisGap margin before the level drops back down, preventing rapid
// flapping at the boundary (same role as MinFreeBytes/ResumeBytes in the
// engine's disk pressure coordinator).
type Thresholds struct {
	WarningRatio  float64
	CriticalRatio float64
	HysteresisGap float64
}

// DefaultThresholds mirrors typical mobile-player guidance: warn at 20%
// available, go critical at 8%, with a 5% hysteresis gap.
func DefaultThresholds() Thresholds {
	return Thresholds{WarningRatio: 0.20, CriticalRatio: 0.08, HysteresisGap: 0.05}
}

// CleanupFunc is invoked, in registration order, whenever the classified
// level increases (Normal->Warning, Warning->Critical, Normal->Critical).
type CleanupFunc func(domain.MemoryState, domain.MemoryPressureLevel)

// MemoryMonitor polls an injected MemoryReader on an interval, classifies
// pressure with hysteresis, and publishes MemoryState to subscribers.
type MemoryMonitor struct {
	reader     ports.MemoryReader
	thresholds Thresholds
	interval   time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	level    domain.MemoryPressureLevel
	cleanups []CleanupFunc

	states *pubsub.Hub[domain.MemoryState]
}

// New creates a MemoryMonitor. A zero interval falls back to 5 seconds.
func New(reader ports.MemoryReader, thresholds Thresholds, interval time.Duration, logger *slog.Logger) *MemoryMonitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryMonitor{
		reader:     reader,
		thresholds: thresholds,
		interval:   interval,
		logger:     logger,
		states:     pubsub.New[domain.MemoryState](stateBufferSize, pubsub.DropOldest, logger),
	}
}

// RegisterCleanup adds a callback invoked, in registration order, whenever
// pressure rises into Warning or Critical.
func (m *MemoryMonitor) RegisterCleanup(fn CleanupFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanups = append(m.cleanups, fn)
}

// Subscribe returns a subscription over published MemoryState values.
func (m *MemoryMonitor) Subscribe() *pubsub.Subscription[domain.MemoryState] {
	return m.states.Subscribe()
}

// CurrentLevel returns the most recently classified pressure level.
func (m *MemoryMonitor) CurrentLevel() domain.MemoryPressureLevel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Run polls the reader on the configured interval until ctx is cancelled.
func (m *MemoryMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

func (m *MemoryMonitor) poll() {
	state := m.reader.Read()
	level := m.classify(state)

	m.mu.Lock()
	previous := m.level
	m.level = level
	cleanups := append([]CleanupFunc(nil), m.cleanups...)
	m.mu.Unlock()

	m.states.Publish(state)
	metrics.MemoryPressureLevel.Set(float64(level))

	if level > previous {
		m.logger.Info("memory pressure increased",
			slog.String("from", previous.String()),
			slog.String("to", level.String()),
		)
		for _, fn := range cleanups {
			fn(state, level)
			metrics.MemoryCleanupsTotal.Inc()
		}
	}
}

// classify applies hysteresis: dropping a level requires clearing the
// threshold by HysteresisGap, not merely crossing back over it.
func (m *MemoryMonitor) classify(state domain.MemoryState) domain.MemoryPressureLevel {
	if state.TotalBytes == 0 {
		return domain.MemoryNormal
	}
	ratio := float64(state.AvailableBytes) / float64(state.TotalBytes)

	m.mu.Lock()
	current := m.level
	m.mu.Unlock()

	switch current {
	case domain.MemoryCritical:
		if ratio >= m.thresholds.CriticalRatio+m.thresholds.HysteresisGap {
			current = domain.MemoryWarning
		} else {
			return domain.MemoryCritical
		}
		fallthrough
	case domain.MemoryWarning:
		if ratio < m.thresholds.CriticalRatio {
			return domain.MemoryCritical
		}
		if ratio >= m.thresholds.WarningRatio+m.thresholds.HysteresisGap {
			return domain.MemoryNormal
		}
		return domain.MemoryWarning
	default: // Normal
		if ratio < m.thresholds.CriticalRatio {
			return domain.MemoryCritical
		}
		if ratio < m.thresholds.WarningRatio {
			return domain.MemoryWarning
		}
		return domain.MemoryNormal
	}
}
