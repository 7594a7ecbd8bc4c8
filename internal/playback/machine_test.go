package playback

import (
	"testing"
	"time"

	"github.com/streamcore/playback/internal/domain"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestSendAcceptsLoadFromIdle(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))

	tr, ok := m.Send(domain.Load("media://a"))
	if !ok {
		t.Fatal("expected Load to be accepted from Idle")
	}
	if tr.From.Kind != domain.StateIdle {
		t.Errorf("from = %v, want Idle", tr.From.Kind)
	}
	if tr.To.Kind != domain.StateLoading || tr.To.Source != "media://a" {
		t.Errorf("to = %+v, want Loading(media://a)", tr.To)
	}
	if got := m.CurrentState(); got.Kind != domain.StateLoading {
		t.Errorf("current state = %v, want Loading", got.Kind)
	}
}

func TestSendRejectsUnknownPair(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))

	_, ok := m.Send(domain.Play())
	if ok {
		t.Fatal("expected Play to be rejected from Idle")
	}
	if got := m.CurrentState(); got.Kind != domain.StateIdle {
		t.Errorf("state mutated on rejection: %v", got.Kind)
	}
}

func TestInvalidActionLeavesStateUntouchedAcrossSequence(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))

	if _, ok := m.Send(domain.Play()); ok {
		t.Fatal("Play should be rejected at Idle")
	}
	if got := m.CurrentState(); !got.Equal(domain.Idle()) {
		t.Fatalf("state = %v, want Idle", got)
	}

	tr, ok := m.Send(domain.Load("media://u"))
	if !ok || tr.From.Kind != domain.StateIdle || tr.To.Kind != domain.StateLoading {
		t.Fatalf("Load should transition Idle -> Loading, got %+v ok=%v", tr, ok)
	}

	if _, ok := m.Send(domain.Retry()); ok {
		t.Fatal("Retry should be rejected while Loading")
	}
}

func TestCanPerformMatchesSendWithoutMutating(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))

	if !m.CanPerform(domain.Load("media://a")) {
		t.Fatal("CanPerform should agree Load is valid from Idle")
	}
	if m.CanPerform(domain.Play()) {
		t.Fatal("CanPerform should reject Play from Idle")
	}
	if got := m.CurrentState(); got.Kind != domain.StateIdle {
		t.Errorf("CanPerform mutated state: %v", got.Kind)
	}
}

func TestBufferingPreservesPreviousIdentity(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))
	mustSend(t, m, domain.Load("media://a"))
	mustSend(t, m, domain.DidBecomeReady())
	mustSend(t, m, domain.Play())

	tr := mustSend(t, m, domain.DidStartBuffering())
	if tr.To.Kind != domain.StateBuffering || tr.To.Previous != domain.StatePlaying {
		t.Fatalf("expected Buffering{prev=Playing}, got %+v", tr.To)
	}

	tr = mustSend(t, m, domain.DidFinishBuffering())
	if tr.To.Kind != domain.StatePlaying {
		t.Fatalf("expected restore to Playing, got %v", tr.To.Kind)
	}
}

func TestPauseWhileBufferingSwapsPrevious(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))
	mustSend(t, m, domain.Load("media://a"))
	mustSend(t, m, domain.DidBecomeReady())
	mustSend(t, m, domain.Play())
	mustSend(t, m, domain.DidStartBuffering())

	tr := mustSend(t, m, domain.Pause())
	if tr.To.Kind != domain.StateBuffering || tr.To.Previous != domain.StatePaused {
		t.Fatalf("expected Buffering{prev=Paused}, got %+v", tr.To)
	}
}

func TestEndedSeekAlwaysRestoresToPaused(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))
	mustSend(t, m, domain.Load("media://a"))
	mustSend(t, m, domain.DidBecomeReady())
	mustSend(t, m, domain.Play())
	mustSend(t, m, domain.DidReachEnd())

	tr := mustSend(t, m, domain.Seek(12))
	if tr.To.Kind != domain.StateSeeking || tr.To.Previous != domain.StatePaused {
		t.Fatalf("Ended + Seek should restore to Paused, got %+v", tr.To)
	}
}

func TestRetryRejectedForNonRecoverableError(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))
	mustSend(t, m, domain.Load("media://a"))
	mustSend(t, m, domain.DidFail(domain.NewPlaybackError(domain.ErrorDRM, "license denied")))

	if _, ok := m.Send(domain.Retry()); ok {
		t.Fatal("Retry should be rejected for a non-recoverable DRM failure")
	}
}

func TestRetryAcceptedForRecoverableError(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))
	mustSend(t, m, domain.Load("media://a"))
	mustSend(t, m, domain.DidFail(domain.NewPlaybackError(domain.ErrorNetwork, "timed out")))

	tr, ok := m.Send(domain.Retry())
	if !ok || tr.To.Kind != domain.StateIdle {
		t.Fatalf("Retry should restore Idle for a recoverable failure, got %+v ok=%v", tr, ok)
	}
}

func TestPausedRejectsAudioSessionInterrupted(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))
	mustSend(t, m, domain.Load("media://a"))
	mustSend(t, m, domain.DidBecomeReady())
	mustSend(t, m, domain.Play())
	mustSend(t, m, domain.Pause())

	if _, ok := m.Send(domain.AudioSessionInterrupted()); ok {
		t.Fatal("AudioSessionInterrupted should be rejected while Paused")
	}
}

func TestSubscribeStateReplaysCurrentValue(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))
	mustSend(t, m, domain.Load("media://a"))

	sub := m.SubscribeState()
	defer sub.Unsubscribe()

	select {
	case got := <-sub.C:
		if got.Kind != domain.StateLoading {
			t.Fatalf("replayed state = %v, want Loading", got.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for replay")
	}
}

func TestSubscribeTransitionsDoesNotReplay(t *testing.T) {
	m := New(fixedClock(time.Unix(0, 0)))
	mustSend(t, m, domain.Load("media://a"))

	sub := m.SubscribeTransitions()
	defer sub.Unsubscribe()

	mustSend(t, m, domain.DidBecomeReady())

	select {
	case got := <-sub.C:
		if got.To.Kind != domain.StateReady {
			t.Fatalf("transition = %+v, want To=Ready", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for transition")
	}
}

func mustSend(t *testing.T, m *Machine, action domain.PlaybackAction) domain.PlaybackTransition {
	t.Helper()
	tr, ok := m.Send(action)
	if !ok {
		t.Fatalf("action %v was rejected from state %v", action.Kind, m.CurrentState().Kind)
	}
	return tr
}
