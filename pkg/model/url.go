// Package model defines the shared data types validated and produced by
// the crawl engine: URLs, requests, responses, documents, elements, and
// the per-element/per-document output containers.
package model

import (
	"fmt"
	"net/url"
	"strings"
)

// StripFragment returns u with its fragment removed, leaving the
// fragment value (without the leading '#') as the second result.
func StripFragment(u *url.URL) (*url.URL, string) {
	if u.Fragment == "" {
		return u, ""
	}
	clone := *u
	clone.Fragment = ""
	clone.RawFragment = ""
	return &clone, u.Fragment
}

// AllowedScheme reports whether scheme is one the crawler will follow
// over the network ({http, https} per the data model).
func AllowedScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}

// ResolveReference resolves ref against base, the way an HTML/sitemap
// attribute value is resolved against the document that contains it.
func ResolveReference(base *url.URL, ref string) (*url.URL, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("parse reference %q: %w", ref, err)
	}
	if base == nil {
		return parsed, nil
	}
	return base.ResolveReference(parsed), nil
}

// HasOrigin reports whether u is within the given origin prefix. The
// comparison is applied to the URL as given by the caller, not to any
// URL it may have redirected to (see SPEC_FULL.md §9, "Origin check
// with redirects").
func HasOrigin(u *url.URL, origin string) bool {
	return strings.HasPrefix(u.String(), origin)
}
