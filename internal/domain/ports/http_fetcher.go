package ports

import (
	"context"

	"github.com/streamcore/playback/internal/domain"
)

// HttpFetcher warms a media source by issuing a partial (range or short
// prefix) fetch. It returns once enough bytes have landed to call the
// source warmed; it is consumed only by the Preload Scheduler.
type HttpFetcher interface {
	Fetch(ctx context.Context, source domain.Uri) error
}
