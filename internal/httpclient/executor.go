// Package httpclient implements the bare request executor (C3) and
// the caching, redirect-following, robots-respecting client built on
// top of it (C4), per SPEC_FULL.md §4.3–§4.4.
package httpclient

import (
	"context"

	"github.com/webvalidator/webvalidator/pkg/model"
)

// Executor sends one HTTP GET and returns the raw Response. It must
// not follow redirects and must not interpret status codes — both are
// C4's job.
type Executor interface {
	Get(ctx context.Context, req model.Request) (*model.Response, error)
}
