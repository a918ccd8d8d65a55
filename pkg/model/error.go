package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a validation failure, per the taxonomy in
// SPEC_FULL.md §7. It is intentionally a flat set of leaf kinds rather
// than the teacher's severity/circuit-breaker hierarchy: nothing in
// this domain needs cross-site circuit breaking, only per-element and
// per-document classification.
type ErrorKind string

const (
	ErrContentTypeInvalid  ErrorKind = "content_type_invalid"
	ErrHTMLElementNotFound ErrorKind = "html_element_not_found"
	ErrHTMLParse           ErrorKind = "html_parse"
	ErrSitemapParse        ErrorKind = "sitemap_parse"
	ErrHTTPClient          ErrorKind = "http_client"
	ErrRobotsTxt           ErrorKind = "robots_txt"
	ErrTooManyRedirects    ErrorKind = "too_many_redirects"
	ErrRedirectLocation    ErrorKind = "redirect_location"
	ErrInvalidStatus       ErrorKind = "invalid_status"
	ErrCache               ErrorKind = "cache"
	ErrURLParse            ErrorKind = "url_parse"
	ErrUTF8                ErrorKind = "utf8"
	ErrConfig              ErrorKind = "config"
	ErrIO                  ErrorKind = "io"
	ErrHostNotDefined      ErrorKind = "host_not_defined"
)

// Error is the wrapped, kind-tagged error every surfaced failure in
// the crawl takes the shape of.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError constructs an *Error of the given kind.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the ErrorKind of err, if it (or something it wraps)
// is a *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Retryable reports whether a retry policy should consider err
// eligible for another attempt: transport-level and status failures
// are retryable, classification and parse failures are not.
func Retryable(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return true
	}
	switch kind {
	case ErrHTTPClient, ErrInvalidStatus, ErrIO:
		return true
	default:
		return false
	}
}
