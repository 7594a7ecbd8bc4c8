// Package preload implements the Preload Scheduler: a registry of at most
// one in-flight fetch per video id, with priority-aware concurrency pacing
// and cooperative cancellation. The single-task-per-id registry is
// grounded on the engine's readerRegistry (reader_dormancy.go): a
// mutex-guarded map keyed by an id, enforcing a single live entry and
// tearing down the superseded one before installing a new one.
package preload

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/streamcore/playback/internal/domain"
	"github.com/streamcore/playback/internal/domain/ports"
	"github.com/streamcore/playback/internal/metrics"
)

// DefaultAdmitRate bounds how many non-Immediate preloads the Scheduler
// admits per second; Immediate tasks bypass this pacing entirely.
const DefaultAdmitRate = 4

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Scheduler drives HttpFetcher warms for videos selected by a
// PreloadStrategy. Safe for concurrent use.
type Scheduler struct {
	fetcher ports.HttpFetcher
	admit   *rate.Limiter

	mu    sync.Mutex
	tasks map[string]*task
}

// New creates a Scheduler using fetcher to warm sources. admitPerSecond
// paces non-Immediate task starts; 0 or negative falls back to
// DefaultAdmitRate.
func New(fetcher ports.HttpFetcher, admitPerSecond float64) *Scheduler {
	if admitPerSecond <= 0 {
		admitPerSecond = DefaultAdmitRate
	}
	return &Scheduler{
		fetcher: fetcher,
		admit:   rate.NewLimiter(rate.Limit(admitPerSecond), int(admitPerSecond)+1),
		tasks:   make(map[string]*task),
	}
}

// Preload starts warming video at the given priority. If a task for
// video.ID already exists, it is cancelled first: starting a new preload
// supersedes any prior one for the same id. Immediate priority bypasses
// the admission pacer; any other priority waits for a token.
func (s *Scheduler) Preload(video domain.PreloadableVideo, priority domain.PreloadPriority) {
	s.Cancel(video.ID)

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.tasks[video.ID] = t
	s.mu.Unlock()

	metrics.PreloadTasksActive.Inc()
	metrics.PreloadTasksStartedTotal.WithLabelValues(priority.String()).Inc()

	go s.run(ctx, t, video, priority)
}

func (s *Scheduler) run(ctx context.Context, t *task, video domain.PreloadableVideo, priority domain.PreloadPriority) {
	defer metrics.PreloadTasksActive.Dec()
	defer close(t.done)
	defer s.clearIfCurrent(video.ID, t)

	if priority != domain.PriorityImmediate {
		if err := s.admit.Wait(ctx); err != nil {
			return
		}
	}

	if ctx.Err() != nil {
		return
	}

	if s.fetcher != nil {
		// Preload failures are absorbed: the scheduler is a best-effort
		// warmer and never surfaces per-task errors.
		_ = s.fetcher.Fetch(ctx, video.Source)
	}
}

// clearIfCurrent removes id's registry entry only if it still points at t,
// so a task that lost a race to a newer Preload call for the same id does
// not clobber the replacement's entry.
func (s *Scheduler) clearIfCurrent(id string, t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks[id] == t {
		delete(s.tasks, id)
	}
}

// Cancel stops the task for videoID, if any. No-op if unknown. Cancellation
// is synchronous to initiate; the task's resources are released promptly
// but asynchronously.
func (s *Scheduler) Cancel(videoID string) {
	s.mu.Lock()
	t, ok := s.tasks[videoID]
	if ok {
		delete(s.tasks, videoID)
	}
	s.mu.Unlock()
	if ok {
		metrics.PreloadTasksCancelledTotal.Inc()
		t.cancel()
	}
}

// CancelAll stops every in-flight task and returns without waiting for
// them to finish.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	tasks := make([]*task, 0, len(s.tasks))
	for id, t := range s.tasks {
		tasks = append(tasks, t)
		delete(s.tasks, id)
	}
	s.mu.Unlock()

	for _, t := range tasks {
		metrics.PreloadTasksCancelledTotal.Inc()
		t.cancel()
	}
}

// ActiveCount reports the number of currently registered tasks, for tests
// and diagnostics.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
