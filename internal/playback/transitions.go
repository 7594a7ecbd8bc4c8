package playback

import "github.com/streamcore/playback/internal/domain"

// transition computes the next state for (state, action), mirroring the
// authoritative table. It returns ok=false when the pair is not in the
// table, which the caller treats as a silent rejection, never an error.
func transition(state domain.PlaybackState, action domain.PlaybackAction) (domain.PlaybackState, bool) {
	switch state.Kind {
	case domain.StateIdle:
		if action.Kind == domain.ActionLoad {
			return domain.Loading(action.Source), true
		}

	case domain.StateLoading:
		switch action.Kind {
		case domain.ActionDidBecomeReady:
			return domain.Ready(), true
		case domain.ActionDidFail:
			return domain.Failed(action.Err), true
		case domain.ActionStop:
			return domain.Idle(), true
		}

	case domain.StateReady:
		switch action.Kind {
		case domain.ActionPlay:
			return domain.Playing(), true
		case domain.ActionStop:
			return domain.Idle(), true
		case domain.ActionLoad:
			return domain.Loading(action.Source), true
		}

	case domain.StatePlaying:
		switch action.Kind {
		case domain.ActionPause, domain.ActionDidEnterBackground, domain.ActionAudioSessionInterrupted:
			return domain.Paused(), true
		case domain.ActionDidStartBuffering:
			return domain.Buffering(domain.StatePlaying), true
		case domain.ActionSeek:
			return domain.Seeking(action.Seconds, domain.StatePlaying), true
		case domain.ActionDidReachEnd:
			return domain.Ended(), true
		case domain.ActionDidFail:
			return domain.Failed(action.Err), true
		case domain.ActionStop:
			return domain.Idle(), true
		}

	case domain.StatePaused:
		switch action.Kind {
		case domain.ActionPlay, domain.ActionAudioSessionResumed:
			return domain.Playing(), true
		case domain.ActionDidStartBuffering:
			return domain.Buffering(domain.StatePaused), true
		case domain.ActionSeek:
			return domain.Seeking(action.Seconds, domain.StatePaused), true
		case domain.ActionStop:
			return domain.Idle(), true
		case domain.ActionLoad:
			return domain.Loading(action.Source), true
		case domain.ActionAudioSessionInterrupted:
			return domain.PlaybackState{}, false
		}

	case domain.StateBuffering:
		switch action.Kind {
		case domain.ActionDidFinishBuffering:
			return restoreFrom(state.Previous), true
		case domain.ActionPause:
			if state.Previous == domain.StatePlaying {
				return domain.Buffering(domain.StatePaused), true
			}
		case domain.ActionPlay:
			if state.Previous == domain.StatePaused {
				return domain.Buffering(domain.StatePlaying), true
			}
		case domain.ActionDidFail:
			return domain.Failed(action.Err), true
		case domain.ActionStop:
			return domain.Idle(), true
		}

	case domain.StateSeeking:
		switch action.Kind {
		case domain.ActionDidFinishSeeking:
			return restoreFrom(state.Previous), true
		case domain.ActionPause:
			if state.Previous == domain.StatePlaying {
				return domain.Seeking(state.TargetSeconds, domain.StatePaused), true
			}
		case domain.ActionPlay:
			if state.Previous == domain.StatePaused {
				return domain.Seeking(state.TargetSeconds, domain.StatePlaying), true
			}
		case domain.ActionDidFail:
			return domain.Failed(action.Err), true
		case domain.ActionStop:
			return domain.Idle(), true
		}

	case domain.StateEnded:
		switch action.Kind {
		case domain.ActionPlay:
			return domain.Playing(), true
		case domain.ActionSeek:
			return domain.Seeking(action.Seconds, domain.StatePaused), true
		case domain.ActionStop:
			return domain.Idle(), true
		case domain.ActionLoad:
			return domain.Loading(action.Source), true
		}

	case domain.StateFailed:
		switch action.Kind {
		case domain.ActionRetry:
			if state.Err.IsRecoverable() {
				return domain.Idle(), true
			}
			return domain.PlaybackState{}, false
		case domain.ActionStop:
			return domain.Idle(), true
		case domain.ActionLoad:
			return domain.Loading(action.Source), true
		}
	}

	return domain.PlaybackState{}, false
}

// restoreFrom rebuilds the Playing/Paused state a Buffering or Seeking node
// was suspending. previous only ever holds StatePlaying or StatePaused.
func restoreFrom(previous domain.StateKind) domain.PlaybackState {
	if previous == domain.StatePlaying {
		return domain.Playing()
	}
	return domain.Paused()
}
