package httpclient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webvalidator/webvalidator/internal/cache"
	"github.com/webvalidator/webvalidator/internal/config"
	"github.com/webvalidator/webvalidator/pkg/model"
)

func testConfig(t *testing.T, yamlText string) *config.Config {
	t.Helper()
	cfg, err := config.LoadBytes([]byte(yamlText))
	require.NoError(t, err)
	return cfg
}

func redirectResponse(url, location string, status int) *model.Response {
	h := http.Header{}
	h.Set("Location", location)
	return &model.Response{URL: url, Status: status, Header: h}
}

func okResponse(url string) *model.Response {
	return &model.Response{URL: url, Status: 200, Header: http.Header{}}
}

func TestCachedClientFollowsRedirectChainWithExactRequestCount(t *testing.T) {
	cfg := testConfig(t, `
sites:
  main:
    roots:
      - "http://example.com/"
`)

	stub := NewStubExecutor()
	stub.HandleResponse("http://example.com/a", redirectResponse("http://example.com/a", "/b", 301))
	stub.HandleResponse("http://example.com/b", redirectResponse("http://example.com/b", "/c", 302))
	stub.HandleResponse("http://example.com/c", okResponse("http://example.com/c"))

	c := cache.NewMemory[*model.Response]()
	defer c.Close()
	client := New(c, stub, cfg.SiteFor, make(chan struct{}, 4), nil, nil)

	resp, err := client.Get(context.Background(), "http://example.com/a")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 200, resp.Status)

	assert.Equal(t, 1, stub.Calls("http://example.com/a"))
	assert.Equal(t, 1, stub.Calls("http://example.com/b"))
	assert.Equal(t, 1, stub.Calls("http://example.com/c"))
	assert.Equal(t, 3, stub.TotalCalls())
}

func TestCachedClientTooManyRedirects(t *testing.T) {
	cfg := testConfig(t, `
sites:
  main:
    roots:
      - "http://example.com/"
    recurse: true
    max_redirects: 1
`)

	stub := NewStubExecutor()
	stub.HandleResponse("http://example.com/a", redirectResponse("http://example.com/a", "/b", 301))
	stub.HandleResponse("http://example.com/b", redirectResponse("http://example.com/b", "/c", 301))
	stub.HandleResponse("http://example.com/c", redirectResponse("http://example.com/c", "/d", 301))

	c := cache.NewMemory[*model.Response]()
	defer c.Close()
	client := New(c, stub, cfg.SiteFor, make(chan struct{}, 4), nil, nil)

	_, err := client.Get(context.Background(), "http://example.com/a")
	require.Error(t, err)
	kind, ok := model.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrTooManyRedirects, kind)
}

func TestCachedClientRobotsDenialIsSuccessWithoutResponse(t *testing.T) {
	cfg := testConfig(t, `
sites:
  main:
    roots:
      - "http://example.com/"
`)

	stub := NewStubExecutor()
	robots := http.Header{}
	robots.Set("Content-Type", "text/plain")
	stub.HandleResponse("http://example.com/robots.txt", &model.Response{
		URL: "http://example.com/robots.txt", Status: 200, Header: robots,
		Body: []byte("User-agent: *\nDisallow: /private\n"),
	})
	stub.HandleResponse("http://example.com/private/page", okResponse("http://example.com/private/page"))

	c := cache.NewMemory[*model.Response]()
	defer c.Close()
	client := New(c, stub, cfg.SiteFor, make(chan struct{}, 4), nil, nil)

	resp, err := client.Get(context.Background(), "http://example.com/private/page")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, 0, stub.Calls("http://example.com/private/page"))
}

func TestCachedClientSingleFlightsConcurrentGets(t *testing.T) {
	cfg := testConfig(t, `
sites:
  main:
    roots:
      - "http://example.com/"
`)

	stub := NewStubExecutor()
	stub.Fallback(func(ctx context.Context, req model.Request) (*model.Response, error) {
		time.Sleep(20 * time.Millisecond)
		return okResponse(req.URL), nil
	})
	stub.Handle("http://example.com/robots.txt", func(ctx context.Context, req model.Request) (*model.Response, error) {
		return &model.Response{URL: req.URL, Status: 404, Header: http.Header{}}, nil
	})

	c := cache.NewMemory[*model.Response]()
	defer c.Close()
	client := New(c, stub, cfg.SiteFor, make(chan struct{}, 16), nil, nil)

	const n = 20
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := client.Get(context.Background(), "http://example.com/shared")
			assert.NoError(t, err)
			done <- struct{}{}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}

	assert.Equal(t, 1, stub.Calls("http://example.com/shared"))
}
