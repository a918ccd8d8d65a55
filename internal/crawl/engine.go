// Package crawl is C5: the recursive crawl engine that walks an
// origin from its seeds, validating every link-bearing element it
// discovers and recursing into same-origin HTML and sitemap documents.
// Grounded on the worker-pool topology of the teacher's
// internal/pipeline/orchestrator.go.
package crawl

import (
	"context"
	"net/url"
	"sync"

	"github.com/webvalidator/webvalidator/internal/config"
	"github.com/webvalidator/webvalidator/internal/httpclient"
	"github.com/webvalidator/webvalidator/internal/logging"
	"github.com/webvalidator/webvalidator/internal/metrics"
	"github.com/webvalidator/webvalidator/pkg/model"
)

const (
	jobQueueCapacity = 65536
	workerCount      = 256
)

type job struct {
	url      string
	origin   string
	expected model.DocumentType
}

// Engine owns the single run of seeds, the visited-URL set, and the
// bounded worker pool that fans document fetches out across goroutines.
type Engine struct {
	client  *httpclient.CachedClient
	cfg     *config.Config
	metrics *metrics.Metrics
	log     logging.Logger

	seen sync.Map // string -> struct{}

	mu      sync.Mutex
	pending int
	jobs    chan job
}

// New builds an Engine over an already-compiled Config and CachedClient.
func New(client *httpclient.CachedClient, cfg *config.Config, m *metrics.Metrics, log logging.Logger) *Engine {
	if log == nil {
		log = logging.New()
	}
	return &Engine{
		client:  client,
		cfg:     cfg,
		metrics: m,
		log:     log,
		jobs:    make(chan job, jobQueueCapacity),
	}
}

// Run starts the worker pool against the configured seeds and returns
// a channel of DocumentOutput, one per visited document, closed once
// every reachable, in-scope document has been processed or ctx is
// done.
func (e *Engine) Run(ctx context.Context) <-chan model.DocumentOutput {
	out := make(chan model.DocumentOutput)

	for _, seed := range e.cfg.Seeds {
		e.enqueue(job{url: seed, origin: seed, expected: model.DocumentTypeUnset})
	}
	e.mu.Lock()
	if e.pending == 0 {
		close(e.jobs)
	}
	e.mu.Unlock()

	var workers sync.WaitGroup
	workers.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer workers.Done()
			for j := range e.jobs {
				e.process(ctx, j, out)
				e.jobDone()
			}
		}()
	}

	go func() {
		workers.Wait()
		close(out)
	}()

	return out
}

func (e *Engine) enqueue(j job) {
	if _, loaded := e.seen.LoadOrStore(j.url, struct{}{}); loaded {
		return
	}
	e.mu.Lock()
	e.pending++
	e.mu.Unlock()
	e.jobs <- j
}

func (e *Engine) jobDone() {
	e.mu.Lock()
	e.pending--
	if e.pending == 0 {
		close(e.jobs)
	}
	e.mu.Unlock()
}

func (e *Engine) process(ctx context.Context, j job, out chan<- model.DocumentOutput) {
	resp, err := e.client.Get(ctx, j.url)
	if err != nil {
		e.log.WithField("url", j.url).Warnf("document fetch failed: %v", err)
		if e.metrics != nil {
			e.metrics.Document("error")
		}
		return
	}
	if resp == nil {
		// robots.txt denied this document outright; nothing to walk.
		return
	}

	docType, ok := model.ResolveDocumentType(j.expected, resp.ContentType())
	if !ok {
		e.log.WithField("url", j.url).Warnf("content type contradiction: %s", resp.ContentType())
		if e.metrics != nil {
			e.metrics.Document("error")
		}
		return
	}

	var elements []model.Element
	switch docType {
	case model.DocumentTypeHTML:
		elements, err = parseHTML(resp.Body)
	case model.DocumentTypeSitemap:
		elements, err = parseSitemap(resp.Body)
	default:
		// Unset: a terminal leaf, never parsed for child links.
	}
	if err != nil {
		e.log.WithField("url", j.url).Warnf("document parse failed: %v", err)
		if e.metrics != nil {
			e.metrics.Document("error")
		}
		return
	}

	base, err := url.Parse(j.url)
	if err != nil {
		return
	}

	outputs := make([]model.ElementOutput, 0, len(elements))
	for _, el := range elements {
		target, ok := linkTarget(el)
		if !ok {
			continue
		}

		expected := elementExpectedType(el)
		outcome := e.validateLink(ctx, base, target, expected)
		outputs = append(outputs, model.ElementOutput{Element: el, Results: []model.Result{outcome.result}})

		if e.metrics != nil {
			if outcome.result.IsError() {
				e.metrics.Element("error")
			} else {
				e.metrics.Element("success")
			}
		}

		if outcome.resolved != nil {
			e.maybeRecurse(j.origin, outcome.resolved, outcome.docType)
		}
	}

	doc := model.NewDocumentOutput(j.url, outputs)
	if e.metrics != nil {
		if doc.HasErrors() {
			e.metrics.Document("error")
		} else {
			e.metrics.Document("success")
		}
	}

	select {
	case out <- doc:
	case <-ctx.Done():
	}
}

func (e *Engine) maybeRecurse(origin string, target *url.URL, docType model.DocumentType) {
	if !model.HasOrigin(target, origin) {
		return
	}

	site := e.cfg.SiteFor(target.Hostname(), target.Path)
	if !site.Recursive {
		return
	}

	e.enqueue(job{url: target.String(), origin: origin, expected: docType})
}
