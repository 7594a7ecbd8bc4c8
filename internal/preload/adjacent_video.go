package preload

import (
	"github.com/streamcore/playback/internal/domain"
	"github.com/streamcore/playback/internal/domain/ports"
)

// AdjacentVideo is the default PreloadStrategy: it looks ahead of the
// current playlist position by a count that shrinks as network quality
// worsens, and stops entirely when offline.
type AdjacentVideo struct{}

// SelectCandidates implements ports.PreloadStrategy.
func (AdjacentVideo) SelectCandidates(playlist []domain.PreloadableVideo, currentIndex int, quality domain.NetworkQuality) []ports.PreloadCandidate {
	if currentIndex < 0 || currentIndex >= len(playlist) || len(playlist) <= 1 {
		return nil
	}
	if quality == domain.NetworkOffline {
		return nil
	}

	lookahead := 2
	if quality == domain.NetworkPoor {
		lookahead = 1
	}

	remaining := len(playlist) - currentIndex - 1
	if lookahead > remaining {
		lookahead = remaining
	}
	if lookahead <= 0 {
		return nil
	}

	priority := domain.PriorityHigh
	candidates := make([]ports.PreloadCandidate, 0, lookahead)
	for i := 1; i <= lookahead; i++ {
		p := priority
		if i > 1 {
			p = domain.PriorityMedium
		}
		candidates = append(candidates, ports.PreloadCandidate{
			Video:    playlist[currentIndex+i],
			Priority: p,
		})
	}
	return candidates
}
