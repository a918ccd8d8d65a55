package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/webvalidator/webvalidator/internal/cache"
	"github.com/webvalidator/webvalidator/internal/config"
	"github.com/webvalidator/webvalidator/internal/metrics"
	"github.com/webvalidator/webvalidator/internal/ratelimit"
	"github.com/webvalidator/webvalidator/pkg/model"
)

// SiteLookup resolves the effective SiteConfig governing a host/path,
// per SPEC_FULL.md §3 and §4.1.
type SiteLookup func(host, path string) config.SiteConfig

// CachedClient is C4: the single-flight-cached, redirect-following,
// robots-respecting HTTP client built on top of a bare Executor.
type CachedClient struct {
	cache   cache.Cache[*model.Response]
	exec    Executor
	siteFor SiteLookup
	limiter *ratelimit.Limiter
	sem     chan struct{}
	metrics *metrics.Metrics
}

// New builds a CachedClient. sem must be a buffered channel sized as
// the concurrency permit pool (SPEC_FULL.md §5); limiter and m may be
// nil.
func New(c cache.Cache[*model.Response], exec Executor, siteFor SiteLookup, sem chan struct{}, limiter *ratelimit.Limiter, m *metrics.Metrics) *CachedClient {
	return &CachedClient{cache: c, exec: exec, siteFor: siteFor, sem: sem, limiter: limiter, metrics: m}
}

// Get performs the full C4 algorithm for rawURL: cache lookup,
// robots-txt gating, redirect-following bounded by the effective
// SiteConfig's MaxRedirects. A nil, nil result means the retrieval was
// denied by robots.txt; a non-nil error is a hard failure.
func (c *CachedClient) Get(ctx context.Context, rawURL string) (*model.Response, error) {
	return c.get(ctx, rawURL, true)
}

func (c *CachedClient) get(ctx context.Context, rawURL string, enforceRobots bool) (*model.Response, error) {
	current := rawURL

	for attempt := 0; ; attempt++ {
		u, err := url.Parse(current)
		if err != nil {
			return nil, urlParseError(current, err)
		}

		site := c.siteFor(u.Hostname(), u.Path)

		if attempt > site.MaxRedirects {
			return nil, tooManyRedirectsError(rawURL)
		}

		noFragment, _ := model.StripFragment(u)
		key := noFragment.String()

		resp, err := c.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*model.Response, error) {
			return c.fetchOnce(ctx, noFragment, enforceRobots, site)
		})
		if err != nil {
			if _, ok := err.(*cache.Error); ok {
				return nil, cacheError(err)
			}
			return nil, err
		}

		if resp == nil {
			// robots.txt denial: success-without-response.
			return nil, nil
		}

		if !resp.IsRedirect() {
			return resp, nil
		}

		location := resp.Header.Get("Location")
		if location == "" {
			return nil, redirectLocationError(current)
		}
		next, err := model.ResolveReference(u, location)
		if err != nil {
			return nil, urlParseError(location, err)
		}
		current = next.String()
	}
}

func (c *CachedClient) fetchOnce(ctx context.Context, u *url.URL, enforceRobots bool, site config.SiteConfig) (*model.Response, error) {
	if enforceRobots {
		allowed := robotsAllowed(ctx, func(ctx context.Context, rawURL string, enforce bool) (*model.Response, error) {
			return c.get(ctx, rawURL, enforce)
		}, u)
		if !allowed {
			if c.metrics != nil {
				c.metrics.RobotsDenied()
			}
			return nil, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, u.Host); err != nil {
			return nil, httpError("rate limit wait", err)
		}
	}

	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, httpError("acquire permit", ctx.Err())
	}
	defer func() { <-c.sem }()

	header := make(http.Header, len(site.Headers))
	for k, v := range site.Headers {
		header.Set(k, v)
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if site.Timeout != nil {
		reqCtx, cancel = context.WithTimeout(ctx, *site.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := withRetry(reqCtx, site.Retry, func() (*model.Response, error) {
		return c.exec.Get(reqCtx, model.NewRequest(u.String(), header, site.MaxRedirects))
	})
	if c.metrics != nil {
		c.metrics.ObserveRequest(time.Since(start), err == nil)
	}
	return resp, err
}
