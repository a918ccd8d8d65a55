package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/webvalidator/webvalidator/pkg/model"
)

// NetHTTPExecutor is the production Executor: a tuned *http.Client
// that never follows redirects itself (C4 owns that per SPEC_FULL.md
// §4.4) — grounded on the transport construction in the teacher's
// internal/scraper/engine.go.
type NetHTTPExecutor struct {
	client *http.Client
}

// NewNetHTTPExecutor builds a NetHTTPExecutor with a tuned connection
// pool and a cookie jar scoped by the public suffix list.
func NewNetHTTPExecutor(timeout time.Duration) (*NetHTTPExecutor, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, httpError("create cookie jar", err)
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	client := &http.Client{
		Transport: transport,
		Jar:       jar,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &NetHTTPExecutor{client: client}, nil
}

func (e *NetHTTPExecutor) Get(ctx context.Context, req model.Request) (*model.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, urlParseError(req.URL, err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, httpError("request "+req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httpError("read body of "+req.URL, err)
	}

	return &model.Response{
		URL:     resp.Request.URL.String(),
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Body:    body,
		Elapsed: time.Since(start),
	}, nil
}
