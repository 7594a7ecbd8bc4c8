// Package orchestrator wires the Playback State Machine, ABR Engine,
// Bandwidth Estimator, Preload Scheduler, Performance Monitor, and Memory
// Monitor into one façade, adapted from the manager pattern that used to
// sit in front of a focus-tracking engine and a settings store: a
// mutex-guarded cached view over collaborators, applying a side effect out
// to its dependency and only committing local state once that side effect
// has actually succeeded.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/streamcore/playback/internal/abr"
	"github.com/streamcore/playback/internal/buffermem"
	"github.com/streamcore/playback/internal/domain"
	"github.com/streamcore/playback/internal/domain/ports"
	"github.com/streamcore/playback/internal/metrics"
	"github.com/streamcore/playback/internal/monitor"
	"github.com/streamcore/playback/internal/playback"
	"github.com/streamcore/playback/internal/preload"
	"github.com/streamcore/playback/internal/pubsub"
)

// Session is the single entry point an application surface drives: one
// playback session, its bitrate ladder, its preload playlist, and the
// monitoring around it.
type Session struct {
	player    ports.PlayerAdapter
	analytics ports.AnalyticsSink
	logger    ports.Logger

	machine         *playback.Machine
	abrEngine       *abr.Engine
	scheduler       *preload.Scheduler
	monitor         *monitor.Monitor
	memMon          *buffermem.MemoryMonitor
	bufferMgr       *buffermem.BufferManager
	preloadStrategy ports.PreloadStrategy

	ladder []domain.BitrateLevel

	mu             sync.Mutex
	sessionID      string
	networkQuality domain.NetworkQuality
	currentBitrate domain.BitrateLevel
	playlist       []domain.PreloadableVideo
	currentIndex   int
}

// New creates a Session. ladder must be sorted ascending by bits per second;
// it is used both for the initial bitrate pick and every later ABR
// decision.
func New(
	player ports.PlayerAdapter,
	analytics ports.AnalyticsSink,
	logger ports.Logger,
	abrEngine *abr.Engine,
	scheduler *preload.Scheduler,
	mon *monitor.Monitor,
	memMon *buffermem.MemoryMonitor,
	preloadStrategy ports.PreloadStrategy,
	ladder []domain.BitrateLevel,
) *Session {
	s := &Session{
		player:          player,
		analytics:       analytics,
		logger:          logger,
		machine:         playback.New(nil),
		abrEngine:       abrEngine,
		scheduler:       scheduler,
		monitor:         mon,
		memMon:          memMon,
		bufferMgr:       buffermem.NewBufferManager(domain.BufferDefault),
		preloadStrategy: preloadStrategy,
		ladder:          ladder,
	}
	if memMon != nil {
		memMon.RegisterCleanup(s.onMemoryPressure)
	}
	return s
}

// Machine exposes the underlying state machine for subscribers (e.g. a
// websocket bridge) that only need to observe, not drive, playback.
func (s *Session) Machine() *playback.Machine { return s.machine }

// Monitor exposes the underlying performance monitor for subscribers.
func (s *Session) Monitor() *monitor.Monitor { return s.monitor }

// BufferConfig returns the currently active forward-buffer configuration.
func (s *Session) BufferConfig() domain.BufferConfiguration { return s.bufferMgr.Current() }

// BufferConfigSubscription returns a subscription over buffer configuration
// changes, replaying the current value immediately to new subscribers.
func (s *Session) BufferConfigSubscription() *pubsub.Subscription[domain.BufferConfiguration] {
	return s.bufferMgr.Subscribe()
}

// CurrentBitrate returns the bitrate level currently in effect.
func (s *Session) CurrentBitrate() domain.BitrateLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentBitrate
}

// Load transitions into Loading, starts a fresh monitoring session, asks the
// player adapter to load source, and on success advances to Ready and picks
// the initial bitrate.
// A player error is translated into a DidFail action so observers see the
// real outcome instead of a stuck Loading state.
func (s *Session) Load(ctx context.Context, sessionID string, source domain.Uri) error {
	if _, ok := s.machine.Send(domain.Load(source)); !ok {
		return fmt.Errorf("orchestrator: Load rejected from state %s", s.machine.CurrentState().Kind)
	}

	s.monitor.StartMonitoring(sessionID)
	s.mu.Lock()
	s.sessionID = sessionID
	s.mu.Unlock()
	s.monitor.RecordEvent(domain.LoadStarted())

	if err := s.player.Load(ctx, source); err != nil {
		playbackErr := domain.NewPlaybackError(domain.ErrorLoadFailed, err.Error())
		s.machine.Send(domain.DidFail(playbackErr))
		s.logger.Log(domain.LogEntry{
			Level:   domain.LogError,
			Message: "player adapter failed to load source",
			Context: domain.LogContext{Subsystem: "orchestrator", SessionID: sessionID, Metadata: map[string]string{"error": err.Error()}},
		})
		return err
	}

	s.machine.Send(domain.DidBecomeReady())
	s.monitor.RecordEvent(domain.FirstFrameRendered())

	s.mu.Lock()
	s.currentBitrate = s.abrEngine.InitialBitrate(s.ladder, s.networkQuality)
	initial := s.currentBitrate
	s.mu.Unlock()
	metrics.CurrentBitrateBps.Set(float64(initial.BitsPerSecond))
	return nil
}

// Play calls through to the player adapter and, only on success, commits
// the Playing transition.
func (s *Session) Play(ctx context.Context) error {
	if !s.machine.CanPerform(domain.Play()) {
		return fmt.Errorf("orchestrator: Play rejected from state %s", s.machine.CurrentState().Kind)
	}
	if err := s.player.Play(ctx); err != nil {
		return err
	}
	s.machine.Send(domain.Play())
	s.monitor.RecordEvent(domain.PlaybackResumedEvent())
	return nil
}

// Pause is the mirror of Play.
func (s *Session) Pause(ctx context.Context) error {
	if !s.machine.CanPerform(domain.Pause()) {
		return fmt.Errorf("orchestrator: Pause rejected from state %s", s.machine.CurrentState().Kind)
	}
	if err := s.player.Pause(ctx); err != nil {
		return err
	}
	s.machine.Send(domain.Pause())
	s.analytics.Record(domain.PlaybackEvent{Kind: domain.AnalyticsPause, Position: s.player.Position()})
	return nil
}

// Seek is the mirror of Play/Pause, recording the analytics tuple only
// once the adapter has actually moved playhead position.
func (s *Session) Seek(ctx context.Context, seconds float64) error {
	action := domain.Seek(seconds)
	if !s.machine.CanPerform(action) {
		return fmt.Errorf("orchestrator: Seek rejected from state %s", s.machine.CurrentState().Kind)
	}
	from := s.player.Position()
	if err := s.player.Seek(ctx, seconds); err != nil {
		return err
	}
	s.machine.Send(action)
	s.machine.Send(domain.DidFinishSeeking())
	s.analytics.Record(domain.PlaybackEvent{Kind: domain.AnalyticsSeek, SeekFrom: from, SeekTo: seconds, Position: seconds})
	return nil
}

// Stop unconditionally returns to Idle and stops monitoring and any
// in-flight preload work.
func (s *Session) Stop() {
	s.machine.Send(domain.Stop())
	s.monitor.StopMonitoring()
	s.scheduler.CancelAll()
}

// UpdateNetworkQuality feeds a fresh network reading into the monitor,
// switches the buffer profile to match it, and re-evaluates preload
// candidates. It does not revisit the current bitrate; RecordBufferHealth
// does that.
func (s *Session) UpdateNetworkQuality(quality domain.NetworkQuality) {
	s.monitor.UpdateNetwork(quality)
	s.bufferMgr.SetProfile(bufferProfileFor(quality))
	s.mu.Lock()
	s.networkQuality = quality
	playlist := s.playlist
	idx := s.currentIndex
	s.mu.Unlock()
	s.reevaluatePreload(playlist, idx, quality)
}

// bufferProfileFor widens the forward-buffer target as network quality
// worsens, trading memory for resilience against stalls, and narrows it
// again once the network can keep up with playback comfortably.
func bufferProfileFor(quality domain.NetworkQuality) domain.BufferProfile {
	switch {
	case quality <= domain.NetworkPoor:
		return domain.BufferAggressive
	case quality >= domain.NetworkExcellent:
		return domain.BufferMinimal
	default:
		return domain.BufferDefault
	}
}

// RecordBufferHealth re-evaluates the bitrate decision using the latest
// buffer health and rebuffering ratio reading, typically sourced from the
// most recent PerformanceSnapshot.
func (s *Session) RecordBufferHealth(bufferHealth, rebufferingRatio float64) {
	s.mu.Lock()
	current := s.currentBitrate
	quality := s.networkQuality
	s.mu.Unlock()

	decision := s.abrEngine.Decide(current, s.ladder, bufferHealth, rebufferingRatio, quality)
	metrics.BitrateDecisionsTotal.WithLabelValues(decision.Kind.String()).Inc()
	if decision.Kind == domain.DecisionMaintain {
		return
	}

	s.mu.Lock()
	s.currentBitrate = decision.Target
	s.mu.Unlock()

	metrics.CurrentBitrateBps.Set(float64(decision.Target.BitsPerSecond))
	s.monitor.RecordEvent(domain.QualityChangedEvent(decision.Target.BitsPerSecond))
}

// SetPlaylist installs the active playlist and current position, and
// immediately schedules preload tasks for whatever is adjacent.
func (s *Session) SetPlaylist(playlist []domain.PreloadableVideo, currentIndex int) {
	s.mu.Lock()
	s.playlist = playlist
	s.currentIndex = currentIndex
	quality := s.networkQuality
	s.mu.Unlock()
	s.reevaluatePreload(playlist, currentIndex, quality)
}

func (s *Session) reevaluatePreload(playlist []domain.PreloadableVideo, currentIndex int, quality domain.NetworkQuality) {
	if s.preloadStrategy == nil || len(playlist) == 0 {
		return
	}
	candidates := s.preloadStrategy.SelectCandidates(playlist, currentIndex, quality)
	for _, c := range candidates {
		s.scheduler.Preload(c.Video, c.Priority)
	}
}

func (s *Session) onMemoryPressure(state domain.MemoryState, level domain.MemoryPressureLevel) {
	usedMB := float64(state.UsedBytes) / (1024 * 1024)
	s.monitor.UpdateMemory(usedMB, level)
	s.monitor.RecordEvent(domain.MemoryWarningEvent(level))

	if level != domain.MemoryCritical {
		return
	}
	s.scheduler.CancelAll()

	s.mu.Lock()
	current := s.currentBitrate
	s.mu.Unlock()

	idx := indexOf(s.ladder, current)
	if idx <= 0 {
		return
	}
	target := s.ladder[idx-1]
	s.mu.Lock()
	s.currentBitrate = target
	s.mu.Unlock()
	s.monitor.RecordEvent(domain.QualityChangedEvent(target.BitsPerSecond))
}

func indexOf(levels []domain.BitrateLevel, current domain.BitrateLevel) int {
	for i, l := range levels {
		if l == current {
			return i
		}
	}
	return -1
}
