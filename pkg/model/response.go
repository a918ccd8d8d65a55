package model

import (
	"net/http"
	"strings"
	"time"
)

// Response is the tuple produced by a successful bare request: final
// URL, status, headers, body, and elapsed duration. Once constructed
// it is never mutated, so callers share it by pointer instead of
// copying the body — the Go garbage collector plays the role the
// spec's reference-counted handle would play in a non-GC language.
type Response struct {
	URL      string
	Status   int
	Header   http.Header
	Body     []byte
	Elapsed  time.Duration
}

// ContentType returns the response's declared content type, with any
// parameters (e.g. "; charset=utf-8") stripped, lower-cased.
func (r *Response) ContentType() string {
	if r == nil {
		return ""
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = ct[:idx]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// IsRedirect reports whether the response's status code is a 3xx.
func (r *Response) IsRedirect() bool {
	return r.Status >= 300 && r.Status < 400
}

// IsAcceptedStatus reports whether status is present in accepted, the
// effective SiteConfig's accepted-status set.
func IsAcceptedStatus(status int, accepted map[int]struct{}) bool {
	if len(accepted) == 0 {
		return status == http.StatusOK
	}
	_, ok := accepted[status]
	return ok
}
