package ports

import "github.com/streamcore/playback/internal/domain"

// PreloadStrategy computes which videos around the current playlist
// position deserve a preload task, ranked by priority. AdjacentVideo is the
// default implementation (internal/preload).
type PreloadStrategy interface {
	SelectCandidates(playlist []domain.PreloadableVideo, currentIndex int, network domain.NetworkQuality) []PreloadCandidate
}

// PreloadCandidate pairs a playlist entry with the priority the strategy
// assigned it.
type PreloadCandidate struct {
	Video    domain.PreloadableVideo
	Priority domain.PreloadPriority
}
