// Package cache implements the single-flight get-or-compute primitive
// (SPEC_FULL.md §4.2): at most one concurrent producer runs per key,
// and every concurrent caller observes the same resulting value.
package cache

import (
	"context"
	"fmt"
)

// ErrorSource distinguishes the layer a CacheError originated from.
type ErrorSource int

const (
	SourceCodec ErrorSource = iota
	SourceStorage
)

// Error is the cache's error type: CacheError ∈ {Codec, Storage},
// neither recoverable by the cache layer itself.
type Error struct {
	Source  ErrorSource
	Message string
	Cause   error
}

func (e *Error) Error() string {
	label := "storage"
	if e.Source == SourceCodec {
		label = "codec"
	}
	return fmt.Sprintf("cache: %s: %s: %v", label, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func codecError(message string, cause error) *Error {
	return &Error{Source: SourceCodec, Message: message, Cause: cause}
}

func storageError(message string, cause error) *Error {
	return &Error{Source: SourceStorage, Message: message, Cause: cause}
}

// Producer computes the value for a cache miss. It is invoked at most
// once concurrently per key.
type Producer[V any] func(ctx context.Context) (V, error)

// Cache is the single public contract: get-or-compute, plus removal so
// a caller can force recomputation.
type Cache[V any] interface {
	// GetOrCompute returns the cached value for key, computing it via
	// produce if absent. Concurrent callers for the same key share one
	// producer invocation and observe the same result.
	GetOrCompute(ctx context.Context, key string, produce Producer[V]) (V, error)

	// Remove deletes key's entry, if any. A concurrent waiter on key
	// (see GetOrCompute) retries from the top when this races ahead of
	// it, per SPEC_FULL.md §4.2.
	Remove(ctx context.Context, key string) error

	// Close releases any resources held by the cache (e.g. an on-disk
	// store). It is a no-op for the in-memory variant.
	Close() error
}
