package curate

import (
	"context"
	"net/url"
	"sync"

	"github.com/fwojciec/chatad"
	"golang.org/x/time/rate"
)

var _ chatad.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRequestsPerSecond is the default per-domain scrape rate.
const DefaultRequestsPerSecond = 2

// DomainLimiter keeps one token bucket per domain, so scrapes of different
// hosts proceed independently while each host sees at most rps requests
// per second.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// per domain with no bursting. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      limit,
	}
}

// Wait blocks until domain may be contacted again or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.rps, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// hostOf returns the host of rawURL, or rawURL itself when it does not
// parse, so unparseable URLs still share a bucket.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
