package fetch

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// hostLimiter hands out one token bucket per host so that a URL list with
// many pages on the same site does not hammer it.
type hostLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	limiters map[string]*rate.Limiter
}

// newHostLimiter returns a limiter allowing perSecond requests per host, or
// nil when perSecond is not positive.
func newHostLimiter(perSecond float64) *hostLimiter {
	if perSecond <= 0 {
		return nil
	}
	return &hostLimiter{
		limit:    rate.Limit(perSecond),
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to rawURL's host is allowed. A nil limiter
// never blocks.
func (h *hostLimiter) Wait(ctx context.Context, rawURL string) error {
	if h == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	h.mu.Lock()
	limiter, ok := h.limiters[u.Host]
	if !ok {
		limiter = rate.NewLimiter(h.limit, 1)
		h.limiters[u.Host] = limiter
	}
	h.mu.Unlock()

	return limiter.Wait(ctx)
}
