package model

// ElementOutput is one Element together with the ordered sequence of
// Results produced by validating its link-bearing attribute(s). Order
// matches element enumeration order in the source document.
type ElementOutput struct {
	Element Element
	Results []Result
}

// Metrics folds this element's results.
func (e ElementOutput) Metrics() Metrics { return MetricsFromResults(e.Results) }

// retainErrors returns a copy of e with successes dropped, or false if
// the result would be empty (the caller should drop the element).
func (e ElementOutput) retainErrors() (ElementOutput, bool) {
	filtered := make([]Result, 0, len(e.Results))
	for _, r := range e.Results {
		if r.IsError() {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return ElementOutput{}, false
	}
	return ElementOutput{Element: e.Element, Results: filtered}, true
}

// DocumentOutput is the per-document result: its URL, the ordered
// ElementOutputs extracted from it, and Metrics computed once at
// construction time from those elements — Metrics never drifts from
// the element results, even after RetainErrors.
type DocumentOutput struct {
	URL      string
	Elements []ElementOutput
	Metrics  Metrics
}

// NewDocumentOutput builds a DocumentOutput, computing Metrics from
// elements at construction time (invariant 1 in SPEC_FULL.md §3).
func NewDocumentOutput(url string, elements []ElementOutput) DocumentOutput {
	var m Metrics
	for _, e := range elements {
		m = m.Merge(e.Metrics())
	}
	return DocumentOutput{URL: url, Elements: elements, Metrics: m}
}

// RetainErrors returns a copy of d in which every ElementOutput has had
// its successes dropped, and ElementOutputs that become empty are
// dropped entirely. Metrics is NOT recomputed — it continues to
// reflect the original validation, per SPEC_FULL.md §4.6.
func (d DocumentOutput) RetainErrors() DocumentOutput {
	filtered := make([]ElementOutput, 0, len(d.Elements))
	for _, e := range d.Elements {
		if out, ok := e.retainErrors(); ok {
			filtered = append(filtered, out)
		}
	}
	return DocumentOutput{URL: d.URL, Elements: filtered, Metrics: d.Metrics}
}

// HasErrors reports whether this document's Metrics recorded any
// element error.
func (d DocumentOutput) HasErrors() bool { return d.Metrics.Error > 0 }
