package model

import "strings"

// DocumentType is the tagged variant a retrieved body is classified
// into before it can be recursively parsed.
type DocumentType int

const (
	// DocumentTypeUnset means no expectation and no observation — the
	// response is a terminal leaf, never parsed for child links.
	DocumentTypeUnset DocumentType = iota
	DocumentTypeHTML
	DocumentTypeSitemap
)

func (t DocumentType) String() string {
	switch t {
	case DocumentTypeHTML:
		return "html"
	case DocumentTypeSitemap:
		return "sitemap"
	default:
		return "unset"
	}
}

// ResolveDocumentType applies the precedence rule from SPEC_FULL.md
// §3: the caller's expectation is overridden by the response's
// observed content-type, when present.
//
// The returned bool is false when the expectation and the observation
// contradict (ContentTypeInvalid should be raised by the caller).
func ResolveDocumentType(expected DocumentType, contentType string) (DocumentType, bool) {
	if contentType == "" {
		return expected, true
	}

	isHTML := contentType == "text/html"
	isXML := strings.HasSuffix(contentType, "/xml")

	switch expected {
	case DocumentTypeHTML:
		if !isHTML {
			return DocumentTypeUnset, false
		}
		return DocumentTypeHTML, true
	case DocumentTypeSitemap:
		if !isXML {
			return DocumentTypeUnset, false
		}
		return DocumentTypeSitemap, true
	default:
		if isHTML {
			return DocumentTypeHTML, true
		}
		return DocumentTypeUnset, true
	}
}
