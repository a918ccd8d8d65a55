package httpclient

import (
	"context"
	"net/url"

	"github.com/temoto/robotstxt"

	"github.com/webvalidator/webvalidator/pkg/model"
)

// userAgent is the fixed crawler identity used both to request and to
// evaluate robots.txt, per SPEC_FULL.md §6.
const userAgent = "muffy"

// robotsAllowed fetches and parses origin/robots.txt (via fetch, with
// robots enforcement disabled to avoid infinite recursion) and reports
// whether target is absolute-allowed for userAgent. A failed or
// non-2xx robots fetch is treated as permissive, per SPEC_FULL.md
// §4.4 step 2a.
func robotsAllowed(ctx context.Context, fetch func(ctx context.Context, rawURL string, enforceRobots bool) (*model.Response, error), target *url.URL) bool {
	robotsURL := &url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/robots.txt"}

	resp, err := fetch(ctx, robotsURL.String(), false)
	if err != nil || resp == nil {
		return true
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return true
	}

	data, err := robotstxt.FromBytes(resp.Body)
	if err != nil {
		return true
	}

	return data.TestAgent(target.Path, userAgent)
}
