// Package monitor implements the Performance Monitor: it aggregates
// Rebuffering Monitor, Startup Tracker, and Bandwidth Estimator counters
// plus cached network/memory state into PerformanceSnapshots and
// threshold-based PerformanceAlerts, publishing both to bounded
// multi-subscriber streams. The publish-then-evaluate-alerts shape mirrors
// the engine's transitionTo + metrics.Inc + logger.Info pattern in
// streaming_fsm.go, generalized from state transitions to arbitrary
// performance events.
package monitor

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/streamcore/playback/internal/bandwidth"
	"github.com/streamcore/playback/internal/domain"
	"github.com/streamcore/playback/internal/metrics"
	"github.com/streamcore/playback/internal/pubsub"
	"github.com/streamcore/playback/internal/rebuffer"
	"github.com/streamcore/playback/internal/startup"
)

const (
	snapshotBufferSize = 8
	alertBufferSize    = 32
)

// Clock returns the current time, injected so tests can control it.
type Clock func() time.Time

// Monitor is the Performance Monitor. Safe for concurrent use.
type Monitor struct {
	clock      Clock
	thresholds domain.PerformanceThresholds

	rebuf   *rebuffer.Monitor
	startup *startup.Tracker
	bw      *bandwidth.Estimator

	mu             sync.Mutex
	active         bool
	sessionID      string
	sessionStart   time.Time
	networkQuality domain.NetworkQuality
	memoryPressure domain.MemoryPressureLevel
	memoryMB       float64
	currentBitrate *uint32

	snapshots *pubsub.Hub[domain.PerformanceSnapshot]
	alerts    *pubsub.Hub[domain.PerformanceAlert]
}

// New creates a Monitor with the given thresholds and clock.
func New(thresholds domain.PerformanceThresholds, clock Clock) *Monitor {
	if clock == nil {
		clock = time.Now
	}
	return &Monitor{
		clock:      clock,
		thresholds: thresholds,
		rebuf:      rebuffer.New(clock),
		startup:    startup.New(clock),
		bw:         bandwidth.New(bandwidth.DefaultMaxSamples),
		snapshots:  pubsub.New[domain.PerformanceSnapshot](snapshotBufferSize, pubsub.DropOldest, nil),
		alerts:     pubsub.New[domain.PerformanceAlert](alertBufferSize, pubsub.DropNewest, nil, metrics.AlertsDroppedTotal.Inc),
	}
}

// StartMonitoring begins a new session: clears per-session state and sets
// the session start time from the injected clock.
func (m *Monitor) StartMonitoring(sessionID string) {
	m.mu.Lock()
	wasActive := m.active
	m.active = true
	m.sessionID = sessionID
	m.sessionStart = m.clock()
	m.networkQuality = domain.NetworkOffline
	m.memoryPressure = domain.MemoryNormal
	m.memoryMB = 0
	m.currentBitrate = nil
	m.bw.Clear()
	m.mu.Unlock()
	m.rebuf.Reset()
	m.startup.Reset()
	if !wasActive {
		metrics.ActiveSessions.Inc()
	}
}

// StopMonitoring clears the session id. Subsequent events are dropped
// silently.
func (m *Monitor) StopMonitoring() {
	m.mu.Lock()
	wasActive := m.active
	m.active = false
	m.sessionID = ""
	m.mu.Unlock()
	if wasActive {
		metrics.ActiveSessions.Dec()
	}
}

// UpdateNetwork injects the latest observed network quality, used by
// subsequent snapshots and degradation alerts.
func (m *Monitor) UpdateNetwork(q domain.NetworkQuality) {
	m.RecordEvent(domain.NetworkChangedEvent(q))
}

// UpdateMemory injects the latest memory reading, used by subsequent
// snapshots.
func (m *Monitor) UpdateMemory(usedMB float64, pressure domain.MemoryPressureLevel) {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return
	}
	m.memoryMB = usedMB
	m.memoryPressure = pressure
	m.mu.Unlock()
}

// Snapshots returns a subscription over published snapshots. Does not
// replay history.
func (m *Monitor) Snapshots() *pubsub.Subscription[domain.PerformanceSnapshot] {
	return m.snapshots.Subscribe()
}

// Alerts returns a subscription over published alerts. Does not replay
// history.
func (m *Monitor) Alerts() *pubsub.Subscription[domain.PerformanceAlert] {
	return m.alerts.Subscribe()
}

// RecordEvent dispatches e by kind, updates counters, publishes a fresh
// snapshot, then evaluates alert rules — always publishing the snapshot
// before any alert it motivated. Snapshots and alerts go through separate
// hubs, so a subscriber reading both streams may still receive an alert
// before the snapshot that preceded it.
func (m *Monitor) RecordEvent(e domain.PerformanceEvent) {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	switch e.Kind {
	case domain.EventLoadStarted:
		m.startup.RecordLoadStart()
		m.publishSnapshot()

	case domain.EventFirstFrameRendered:
		m.startup.RecordFirstFrame()
		snap := m.publishSnapshot()
		if snap.TimeToFirstFrame != nil {
			metrics.TimeToFirstFrame.Observe(snap.TimeToFirstFrame.Seconds())
			m.evaluateStartupAlert(*snap.TimeToFirstFrame)
		}

	case domain.EventBufferingStarted:
		m.rebuf.BufferingStarted()
		m.publishSnapshot()
		metrics.BufferingEventsTotal.Inc()
		if count := m.rebuf.EventsInLastMinute(); count > m.thresholds.MaxBufferingEventsPerMinute {
			m.emitAlert(domain.PerformanceAlert{
				Type:          domain.AlertFrequentRebuffering,
				Severity:      domain.SeverityWarning,
				Message:       "buffering is happening too often",
				Suggestion:    "consider lowering the target bitrate",
				RebufferCount: count,
			})
		}

	case domain.EventBufferingEnded:
		ev, ok := m.rebuf.BufferingEnded()
		snap := m.publishSnapshot()
		if !ok {
			return
		}
		metrics.BufferingDuration.Observe(ev.Duration.Seconds())
		if ev.Duration > m.thresholds.MaxBufferingDuration {
			m.emitAlert(domain.PerformanceAlert{
				Type:              domain.AlertProlongedBuffering,
				Severity:          domain.SeverityWarning,
				Message:           "a buffering episode lasted longer than expected",
				BufferingDuration: ev.Duration,
			})
		}
		if ratio := snap.RebufferingRatio(); ratio > m.thresholds.CriticalRebufferingRatio {
			m.emitAlert(domain.PerformanceAlert{
				Type:          domain.AlertFrequentRebuffering,
				Severity:      domain.SeverityCritical,
				Message:       "rebuffering ratio has crossed the critical threshold",
				Suggestion:    "consider switching to a lower bitrate",
				RebufferCount: snap.BufferingCount,
				RebufferRatio: ratio,
			})
		}

	case domain.EventPlaybackStalled:
		m.publishSnapshot()
		m.emitAlert(domain.PerformanceAlert{
			Type:     domain.AlertPlaybackStalled,
			Severity: domain.SeverityCritical,
			Message:  "playback has stalled",
		})

	case domain.EventPlaybackResumed:
		m.publishSnapshot()

	case domain.EventQualityChanged:
		m.mu.Lock()
		previous := m.currentBitrate
		m.currentBitrate = new(uint32)
		*m.currentBitrate = e.BitsPerSecond
		m.mu.Unlock()
		m.publishSnapshot()
		if previous != nil && *previous > 0 {
			drop := (float64(*previous) - float64(e.BitsPerSecond)) / float64(*previous)
			if drop > 0.25 {
				m.emitAlert(domain.PerformanceAlert{
					Type:        domain.AlertQualityDowngrade,
					Severity:    domain.SeverityInfo,
					Message:     "rendition quality dropped by more than 25%",
					BitrateFrom: *previous,
					BitrateTo:   e.BitsPerSecond,
				})
			}
		}

	case domain.EventMemoryWarning:
		m.mu.Lock()
		m.memoryPressure = e.MemoryLevel
		m.mu.Unlock()
		m.publishSnapshot()
		severity := domain.SeverityWarning
		if e.MemoryLevel == domain.MemoryCritical {
			severity = domain.SeverityCritical
		}
		m.emitAlert(domain.PerformanceAlert{
			Type:        domain.AlertMemoryPressure,
			Severity:    severity,
			Message:     "device memory pressure detected",
			MemoryLevel: e.MemoryLevel,
		})

	case domain.EventNetworkChanged:
		m.mu.Lock()
		previous := m.networkQuality
		m.networkQuality = e.NetworkQuality
		m.mu.Unlock()
		m.publishSnapshot()
		if e.NetworkQuality.StepsBelow(previous) >= 2 {
			m.emitAlert(domain.PerformanceAlert{
				Type:        domain.AlertNetworkDegradation,
				Severity:    domain.SeverityWarning,
				Message:     "network quality degraded sharply",
				NetworkFrom: previous,
				NetworkTo:   e.NetworkQuality,
			})
		}

	case domain.EventBytesTransferred:
		m.mu.Lock()
		m.bw.Record(domain.BandwidthSample{
			Bytes:           e.Bytes,
			DurationSeconds: e.DurationSeconds,
			Timestamp:       m.clock(),
		})
		estimate := m.bw.CurrentEstimate()
		m.mu.Unlock()
		metrics.BandwidthEstimateBps.Set(float64(estimate.AvgBps))
		metrics.BandwidthStability.Set(estimate.Stability)
		m.publishSnapshot()
	}
}

func (m *Monitor) evaluateStartupAlert(ttff time.Duration) {
	switch {
	case ttff > m.thresholds.CriticalStartupTime:
		m.emitAlert(domain.PerformanceAlert{
			Type:            domain.AlertSlowStartup,
			Severity:        domain.SeverityCritical,
			Message:         "first frame took far longer than expected",
			StartupDuration: ttff,
		})
	case ttff > m.thresholds.WarningStartupTime:
		m.emitAlert(domain.PerformanceAlert{
			Type:            domain.AlertSlowStartup,
			Severity:        domain.SeverityWarning,
			Message:         "first frame took longer than expected",
			StartupDuration: ttff,
		})
	}
}

// publishSnapshot builds a fresh snapshot from current counters and cached
// state, publishes it, and returns it so callers can use its derived
// fields (e.g. RebufferingRatio) for alert evaluation without recomputing.
func (m *Monitor) publishSnapshot() domain.PerformanceSnapshot {
	snap := m.buildSnapshot()
	m.snapshots.Publish(snap)
	return snap
}

func (m *Monitor) buildSnapshot() domain.PerformanceSnapshot {
	m.mu.Lock()
	sessionID := m.sessionID
	sessionStart := m.sessionStart
	networkQuality := m.networkQuality
	memoryPressure := m.memoryPressure
	memoryMB := m.memoryMB
	currentBitrate := m.currentBitrate
	m.mu.Unlock()

	rebufState := m.rebuf.State()
	measurement := m.startup.Measurement()

	return domain.PerformanceSnapshot{
		Timestamp:                m.clock(),
		SessionID:                sessionID,
		SessionStart:             sessionStart,
		TimeToFirstFrame:         measurement.TimeToFirstFrame,
		IsBuffering:              rebufState.IsBuffering,
		BufferingCount:           rebufState.Count,
		TotalBufferingDuration:   rebufState.TotalDuration,
		CurrentBufferingDuration: rebufState.CurrentDuration,
		CurrentBitrate:           currentBitrate,
		NetworkQuality:           networkQuality,
		MemoryMB:                 memoryMB,
		MemoryPressure:           memoryPressure,
	}
}

// emitAlert fills in the common fields (id, session, timestamp) and
// publishes the alert.
func (m *Monitor) emitAlert(alert domain.PerformanceAlert) {
	m.mu.Lock()
	sessionID := m.sessionID
	m.mu.Unlock()

	alert.ID = uuid.NewString()
	alert.SessionID = sessionID
	alert.Timestamp = m.clock()
	metrics.PerformanceAlertsTotal.WithLabelValues(alert.Type.String(), alert.Severity.String()).Inc()
	m.alerts.Publish(alert)
}
