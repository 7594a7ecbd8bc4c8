// Package httpfetcher implements ports.HttpFetcher with a plain net/http
// client, throttled client-side by a token bucket so a burst of preload
// warms never floods an origin the way an unbounded rate limiter would.
package httpfetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/streamcore/playback/internal/domain"
)

// HttpFetcher issues a short range request against a media source and
// discards the body, just enough to warm any caches sitting in front of
// the origin.
type HttpFetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	rangeBytes int64
}

// New creates an HttpFetcher. ratePerSecond bounds how many fetches this
// instance starts per second; a positive rangeBytes sends a Range header
// asking for only the first rangeBytes bytes of each source (0 sends no
// Range header). Whatever body the server returns is read in full.
func New(ratePerSecond float64, rangeBytes int64) *HttpFetcher {
	return &HttpFetcher{
		client:     &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		rangeBytes: rangeBytes,
	}
}

// Fetch implements ports.HttpFetcher.
func (f *HttpFetcher) Fetch(ctx context.Context, source domain.Uri) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(source), nil)
	if err != nil {
		return err
	}
	if f.rangeBytes > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", f.rangeBytes-1))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("httpfetcher: %s returned status %d", source, resp.StatusCode)
	}

	_, err = io.Copy(io.Discard, resp.Body)
	return err
}
