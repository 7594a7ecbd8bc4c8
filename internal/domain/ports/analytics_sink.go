package ports

import "github.com/streamcore/playback/internal/domain"

// AnalyticsSink receives PlaybackEvent tuples. Delivery is fire-and-forget,
// at-most-once per event; the sink owns its own storage engine, whatever
// that may be.
type AnalyticsSink interface {
	Record(event domain.PlaybackEvent)
}
