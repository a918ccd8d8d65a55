// Package ratelimit composes a global and a per-site token-bucket
// admission rate on top of golang.org/x/time/rate, per SPEC_FULL.md
// §5 ("Rate limiting"). Both buckets must admit a request before it
// proceeds.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/webvalidator/webvalidator/internal/config"
)

// Limiter gates requests by a global bucket and a per-host bucket.
// Either bucket may be disabled (nil) when its configured supply or
// window is zero, in which case it never blocks.
type Limiter struct {
	global *rate.Limiter

	mu       sync.Mutex
	perHost  map[string]*rate.Limiter
	supply   int
	window   rate.Limit
	disabled bool
}

// New builds a Limiter from the effective global and per-site
// RateLimit settings.
func New(global, perSite config.RateLimit) *Limiter {
	l := &Limiter{perHost: make(map[string]*rate.Limiter)}

	if global.Supply > 0 && global.Window > 0 {
		l.global = rate.NewLimiter(toLimit(global), global.Supply)
	}

	if perSite.Supply > 0 && perSite.Window > 0 {
		l.supply = perSite.Supply
		l.window = toLimit(perSite)
	} else {
		l.disabled = true
	}

	return l
}

func toLimit(r config.RateLimit) rate.Limit {
	return rate.Limit(float64(r.Supply) / r.Window.Seconds())
}

// Wait blocks until both the global bucket and host's per-site bucket
// admit the request, or ctx is done.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	if l.global != nil {
		if err := l.global.Wait(ctx); err != nil {
			return err
		}
	}
	if l.disabled {
		return nil
	}
	return l.hostLimiter(host).Wait(ctx)
}

func (l *Limiter) hostLimiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.perHost[host]
	if !ok {
		lim = rate.NewLimiter(l.window, l.supply)
		l.perHost[host] = lim
	}
	return lim
}
