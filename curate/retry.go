package curate

import (
	"context"
	"time"
)

// ScrapeFunc retrieves one page.
type ScrapeFunc func(ctx context.Context, url string) (string, error)

// RetryFunc is called before each retry with the attempt about to be made.
type RetryFunc func(url string, attempt int, err error)

// DefaultRetryDelays returns the backoff delays for scrape retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// ScrapeWithRetry calls scrape until it succeeds, making one attempt plus
// one retry per entry in delays, sleeping delays[i] before retry i.
// It returns the last error once attempts run out, or ctx.Err() if the
// context ends while waiting.
func ScrapeWithRetry(ctx context.Context, url string, scrape ScrapeFunc, onRetry RetryFunc, delays []time.Duration) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		if attempt > 0 {
			if onRetry != nil {
				onRetry(url, attempt+1, lastErr)
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delays[attempt-1]):
			}
		}

		markdown, err := scrape(ctx, url)
		if err == nil {
			return markdown, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}
