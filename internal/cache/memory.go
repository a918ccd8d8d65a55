package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// pollInterval is the small interval described in SPEC_FULL.md §4.2 at
// which a waiter re-checks whether its entry was concurrently removed.
// The channel close on entry.done is the condition-signal fast path
// §9 recommends in preference to bare polling; pollInterval exists
// only to notice an invalidating Remove that races ahead of us.
const pollInterval = 10 * time.Millisecond

type entry[V any] struct {
	done    chan struct{}
	value   V
	err     error
	removed atomic.Bool
}

func newEntry[V any]() *entry[V] {
	return &entry[V]{done: make(chan struct{})}
}

// Memory is the default, non-persistent Cache variant: a concurrent
// map of pending/ready entries, one per key.
type Memory[V any] struct {
	m sync.Map // string -> *entry[V]
}

// NewMemory constructs an empty in-memory single-flight cache.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{}
}

func (c *Memory[V]) GetOrCompute(ctx context.Context, key string, produce Producer[V]) (V, error) {
	for {
		actual, loaded := c.m.LoadOrStore(key, newEntry[V]())
		e := actual.(*entry[V])

		if !loaded {
			return c.runProducer(ctx, key, e, produce)
		}

		value, err, retry, ctxErr := awaitEntry(ctx, e)
		if ctxErr != nil {
			var zero V
			return zero, ctxErr
		}
		if retry {
			continue
		}
		return value, err
	}
}

func (c *Memory[V]) runProducer(ctx context.Context, key string, e *entry[V], produce Producer[V]) (V, error) {
	value, err := produce(ctx)
	if err != nil {
		// The marker is removed so retries may succeed, per
		// SPEC_FULL.md §4.2.
		c.m.CompareAndDelete(key, e)
		e.err = err
		close(e.done)
		var zero V
		return zero, err
	}
	e.value = value
	close(e.done)
	return value, nil
}

// awaitEntry blocks until e settles (ready or removed) or ctx is done.
// It returns retry=true when the entry was invalidated by a
// concurrent Remove while we waited, per SPEC_FULL.md §4.2 and its §8
// testable property. Shared by Memory and Persistent: both track
// in-process waiters the same way.
func awaitEntry[V any](ctx context.Context, e *entry[V]) (value V, err error, retry bool, ctxErr error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			if e.removed.Load() {
				return value, nil, true, nil
			}
			return e.value, e.err, false, nil
		case <-ticker.C:
			if e.removed.Load() {
				return value, nil, true, nil
			}
		case <-ctx.Done():
			return value, nil, false, ctx.Err()
		}
	}
}

func (c *Memory[V]) Remove(_ context.Context, key string) error {
	if v, ok := c.m.LoadAndDelete(key); ok {
		e := v.(*entry[V])
		e.removed.Store(true)
	}
	return nil
}

func (c *Memory[V]) Close() error { return nil }
