package httpclient

import (
	"context"
	"sync"

	"github.com/webvalidator/webvalidator/pkg/model"
)

// StubResponder produces a canned (*model.Response, error) for a
// request, letting a test script a sequence of redirects, failures,
// or delays. Grounded on the scripted-responder pattern used for the
// teacher's own HTTPClient test doubles and on the fake/stub HTTP
// clients in the retrieval pack's other crawler examples.
type StubResponder func(ctx context.Context, req model.Request) (*model.Response, error)

// StubExecutor is an Executor whose responses are entirely scripted.
type StubExecutor struct {
	mu        sync.Mutex
	byURL     map[string]StubResponder
	calls     map[string]int
	fallback  StubResponder
}

// NewStubExecutor builds an empty StubExecutor; register responses
// with Handle before use.
func NewStubExecutor() *StubExecutor {
	return &StubExecutor{
		byURL: make(map[string]StubResponder),
		calls: make(map[string]int),
	}
}

// Handle registers a scripted responder for an exact URL.
func (s *StubExecutor) Handle(url string, responder StubResponder) *StubExecutor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byURL[url] = responder
	return s
}

// HandleResponse is a convenience over Handle for the common case of
// always returning the same response.
func (s *StubExecutor) HandleResponse(url string, resp *model.Response) *StubExecutor {
	return s.Handle(url, func(ctx context.Context, req model.Request) (*model.Response, error) {
		return resp, nil
	})
}

// Fallback sets the responder used for URLs with no exact match.
func (s *StubExecutor) Fallback(responder StubResponder) *StubExecutor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = responder
	return s
}

// Calls returns how many times url was requested.
func (s *StubExecutor) Calls(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[url]
}

// TotalCalls returns the number of Get invocations across all URLs.
func (s *StubExecutor) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func (s *StubExecutor) Get(ctx context.Context, req model.Request) (*model.Response, error) {
	s.mu.Lock()
	s.calls[req.URL]++
	responder, ok := s.byURL[req.URL]
	fallback := s.fallback
	s.mu.Unlock()

	if !ok {
		responder = fallback
	}
	if responder == nil {
		return nil, httpError("no stub registered for "+req.URL, nil)
	}
	return responder(ctx, req)
}
