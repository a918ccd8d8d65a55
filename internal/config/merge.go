package config

// mergeRaw merges child onto parent: scalars use child's value if
// set, else parent's; maps overlay key-by-key; a site name present in
// both files is field-merged the same way a site extending a sibling
// is (mergeRawSite) rather than the child's copy replacing the
// parent's wholesale. SPEC_FULL.md §4.1, "Merge semantics
// (parent-then-child)".
func mergeRaw(parent, child *Raw) *Raw {
	if parent == nil {
		return child
	}
	if child == nil {
		return parent
	}

	merged := &Raw{
		Concurrency: mergeConcurrency(parent.Concurrency, child.Concurrency),
		Cache:       mergeCache(parent.Cache, child.Cache),
		RateLimit:   mergeRateLimit(parent.RateLimit, child.RateLimit),
		Sites:       make(map[string]*RawSite, len(parent.Sites)+len(child.Sites)),
	}
	for name, site := range parent.Sites {
		merged.Sites[name] = site
	}
	for name, site := range child.Sites {
		if base, ok := merged.Sites[name]; ok {
			merged.Sites[name] = mergeRawSite(base, site)
		} else {
			merged.Sites[name] = site
		}
	}
	return merged
}

// mergeRawSite merges a child file's site declaration onto the same
// name's declaration from the extended parent file, with the set
// fields (AcceptedStatuses, AcceptedSchemes) replacing wholesale
// rather than unioning — a deliberate choice documented in
// SPEC_FULL.md §9: unioning would make it impossible for a child to
// narrow accepted status codes.
func mergeRawSite(parent, child *RawSite) *RawSite {
	out := *child
	if out.Extend == "" {
		out.Extend = parent.Extend
	}
	if out.Recurse == nil {
		out.Recurse = parent.Recurse
	}
	if out.Ignore == nil {
		out.Ignore = parent.Ignore
	}
	if out.Roots == nil {
		out.Roots = parent.Roots
	}
	if out.AcceptedStatuses == nil {
		out.AcceptedStatuses = parent.AcceptedStatuses
	}
	if out.AcceptedSchemes == nil {
		out.AcceptedSchemes = parent.AcceptedSchemes
	}
	if out.MaxRedirects == nil {
		out.MaxRedirects = parent.MaxRedirects
	}
	if out.Timeout == "" {
		out.Timeout = parent.Timeout
	}
	if out.CacheMaxAge == "" {
		out.CacheMaxAge = parent.CacheMaxAge
	}
	if out.FragmentsIgnored == nil {
		out.FragmentsIgnored = parent.FragmentsIgnored
	}
	if out.Retry == nil {
		out.Retry = parent.Retry
	}
	out.Headers = mergeHeaders(parent.Headers, child.Headers)
	return &out
}

func mergeConcurrency(parent, child *RawConcurrency) *RawConcurrency {
	if parent == nil {
		return child
	}
	if child == nil {
		return parent
	}
	out := *parent
	if child.Global != nil {
		out.Global = child.Global
	}
	if child.PerSite != nil {
		out.PerSite = child.PerSite
	}
	return &out
}

func mergeCache(parent, child *RawCache) *RawCache {
	if parent == nil {
		return child
	}
	if child == nil {
		return parent
	}
	out := *parent
	if child.Persistent != nil {
		out.Persistent = child.Persistent
	}
	return &out
}

func mergeRateLimit(parent, child *RawRateLimit) *RawRateLimit {
	if parent == nil {
		return child
	}
	if child == nil {
		return parent
	}
	out := *parent
	if child.Supply != nil {
		out.Supply = child.Supply
	}
	if child.Window != "" {
		out.Window = child.Window
	}
	return &out
}

// mergeHeaders overlays child's headers onto parent's, key by key.
func mergeHeaders(parent, child map[string]string) map[string]string {
	if len(parent) == 0 && len(child) == 0 {
		return nil
	}
	merged := make(map[string]string, len(parent)+len(child))
	for k, v := range parent {
		merged[k] = v
	}
	for k, v := range child {
		merged[k] = v
	}
	return merged
}
