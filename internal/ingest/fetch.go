package ingest

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Fetcher downloads trade CSV exports over HTTP so a journal can be imported
// straight from a broker's share link.
type Fetcher struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewFetcher creates a Fetcher. limit is requests per second.
func NewFetcher(limit float64, burst int, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client:  resty.New().SetTimeout(30 * time.Second),
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
	}
}

// Fetch downloads the CSV at url and hands it back as an ingestable reader.
// Transient failures (429, 5xx, network errors) are retried with exponential
// backoff, honoring Retry-After when the server provides one.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*bytes.Reader, error) {
	const maxRetries = 3

	var resp *resty.Response
	var err error

	for i := 0; i < maxRetries; i++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		f.logger.Debug("Fetching CSV", zap.String("url", url), zap.Int("attempt", i+1))
		resp, err = f.client.R().SetContext(ctx).Get(url)

		if err == nil && !resp.IsError() {
			return bytes.NewReader(resp.Body()), nil
		}

		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil && resp.StatusCode() != 0 {
			code := resp.StatusCode()
			if code == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if code >= 500 {
				shouldRetry = true
			}
		} else {
			// network or other client-side error
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("fetch %s failed with status %s", url, resp.Status())
		}

		if retryAfter == 0 {
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		f.logger.Warn("Fetch failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("fetch %s failed after %d attempts: %w", url, maxRetries, err)
}
