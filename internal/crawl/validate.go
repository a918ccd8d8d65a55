package crawl

import (
	"context"
	"fmt"
	"net/url"

	"github.com/webvalidator/webvalidator/pkg/model"
)

// linkOutcome is the outcome of validating a single element's target:
// the Result to attach to it, and — when the target resolved to a
// recursable document — the fragment-stripped URL and its resolved
// DocumentType, for the caller to enqueue.
type linkOutcome struct {
	result   model.Result
	resolved *url.URL
	docType  model.DocumentType
}

// validateLink resolves rawTarget against base and validates it, per
// SPEC_FULL.md §4.5 ("validate_link"): non-navigable schemes and
// robots-denied fetches are success-without-response; otherwise the
// target is fetched through the cached client, classified against
// expected by content-type, and — for an HTML result carrying a
// fragment — checked for that fragment's existence in the fetched
// body, whether or not that body belongs to the referencing document.
func (e *Engine) validateLink(ctx context.Context, base *url.URL, rawTarget string, expected model.DocumentType) linkOutcome {
	target, err := model.ResolveReference(base, rawTarget)
	if err != nil {
		return linkOutcome{result: model.Fail(model.NewError(model.ErrURLParse, "resolve "+rawTarget, err))}
	}

	if !model.AllowedScheme(target.Scheme) {
		return linkOutcome{result: model.Ok(nil)}
	}

	noFragTarget, frag := model.StripFragment(target)

	resp, err := e.client.Get(ctx, noFragTarget.String())
	if err != nil {
		kind, ok := model.KindOf(err)
		if !ok {
			kind = model.ErrHTTPClient
		}
		return linkOutcome{result: model.Fail(model.NewError(kind, err.Error(), err))}
	}
	if resp == nil {
		// robots.txt denial: success-without-response, not recursed.
		return linkOutcome{result: model.Ok(nil)}
	}

	site := e.cfg.SiteFor(noFragTarget.Hostname(), noFragTarget.Path)
	if !model.IsAcceptedStatus(resp.Status, site.AcceptedStatuses) {
		return linkOutcome{result: model.Fail(model.NewError(model.ErrInvalidStatus,
			fmt.Sprintf("status %d for %s", resp.Status, noFragTarget.String()), nil))}
	}

	docType, ok := model.ResolveDocumentType(expected, resp.ContentType())
	if !ok {
		return linkOutcome{result: model.Fail(model.NewError(model.ErrContentTypeInvalid,
			fmt.Sprintf("content type %q does not match expected %s for %s", resp.ContentType(), expected, noFragTarget.String()), nil))}
	}

	if frag != "" && docType == model.DocumentTypeHTML {
		if !fragmentExists(resp.Body, frag) {
			// The element fails, but the fetched page is still recursed into.
			return linkOutcome{result: model.Fail(model.NewError(model.ErrHTMLElementNotFound,
				fmt.Sprintf("fragment #%s not found in %s", frag, noFragTarget.String()), nil)),
				resolved: noFragTarget, docType: docType}
		}
	}

	if docType == model.DocumentTypeUnset {
		// Terminal leaf: reachable and well-formed, nothing to recurse into.
		return linkOutcome{result: model.Ok(resp)}
	}

	return linkOutcome{result: model.Ok(resp), resolved: noFragTarget, docType: docType}
}
