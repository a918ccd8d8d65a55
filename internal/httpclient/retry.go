package httpclient

import (
	"context"
	"time"

	"github.com/webvalidator/webvalidator/internal/config"
	"github.com/webvalidator/webvalidator/pkg/model"
)

// withRetry runs fn, retrying up to policy.Count times on a Retryable
// error with exponential backoff (policy.Initial, ·Factor, ·Factor²,
// …), capped at policy.Cap when set. Grounded on the teacher's
// internal/utils retry-with-backoff loop in internal/scraper/engine.go.
func withRetry(ctx context.Context, policy config.RetryPolicy, fn func() (*model.Response, error)) (*model.Response, error) {
	delay := policy.Initial

	var resp *model.Response
	var err error
	for attempt := 0; ; attempt++ {
		resp, err = fn()
		if err == nil || !model.Retryable(err) || attempt >= policy.Count {
			return resp, err
		}

		wait := delay
		if policy.Cap != nil && wait > *policy.Cap {
			wait = *policy.Cap
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, httpError("retry wait", ctx.Err())
		case <-timer.C:
		}

		if policy.Factor > 0 {
			delay = time.Duration(float64(delay) * policy.Factor)
		}
	}
}
