package config

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"time"
)

// Compile resolves the site extension graph and produces the
// effective, host/path-indexed Config. SPEC_FULL.md §4.1.
func Compile(raw *Raw) (*Config, error) {
	sites := raw.Sites
	if sites == nil {
		sites = map[string]*RawSite{}
	}

	defaultName, err := selectDefaultSite(sites)
	if err != nil {
		return nil, err
	}

	order, err := resolveSiteOrder(sites)
	if err != nil {
		return nil, err
	}

	compiled := make(map[string]SiteConfig, len(sites))
	cfg := &Config{
		Hosts: make(map[string][]PathRule),
	}

	for _, name := range order {
		site := sites[name]
		ignored := site.Ignore != nil && *site.Ignore

		effective, err := compileSite(name, site, compiled)
		if err != nil {
			return nil, err
		}
		compiled[name] = effective

		if ignored {
			if err := expandIgnoreRoots(cfg, site.Roots); err != nil {
				return nil, err
			}
			continue
		}
		if !effective.Recursive {
			continue
		}
		if err := indexRoots(cfg, site.Roots, effective); err != nil {
			return nil, err
		}
	}

	if defaultName != "" {
		cfg.Default = compiled[defaultName]
	} else {
		cfg.Default = builtinDefault()
	}

	applyGlobals(cfg, raw)

	for host := range cfg.Hosts {
		rules := cfg.Hosts[host]
		sort.SliceStable(rules, func(i, j int) bool {
			return len(rules[i].Prefix) > len(rules[j].Prefix)
		})
		cfg.Hosts[host] = rules
	}

	return cfg, nil
}

// selectDefaultSite finds the at-most-one site with empty roots and no
// extend (SPEC_FULL.md §4.1, "Default site selection").
func selectDefaultSite(sites map[string]*RawSite) (string, error) {
	var candidates []string
	names := make([]string, 0, len(sites))
	for name := range sites {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		site := sites[name]
		if len(site.Roots) == 0 && site.Extend == "" {
			candidates = append(candidates, name)
		}
	}

	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
		return candidates[0], nil
	default:
		return "", MultipleDefaultSiteConfigs(candidates)
	}
}

// compileSite merges site onto its compiled parent, if declared, or
// the hard-coded builtin base otherwise — every non-extending site,
// including the one selected as default, starts from the same
// builtin base (SPEC_FULL.md §4.1 step 3; see DESIGN.md for this
// reading of "the system default").
func compileSite(name string, site *RawSite, compiled map[string]SiteConfig) (SiteConfig, error) {
	base := builtinDefault()
	baseRecursive := false
	if site.Extend != "" {
		parent := compiled[site.Extend]
		base = parent
		baseRecursive = parent.Recursive
	}

	out := base
	if site.AcceptedStatuses != nil {
		out.AcceptedStatuses = toStatusSet(site.AcceptedStatuses)
	}
	if site.AcceptedSchemes != nil {
		out.AcceptedSchemes = toStringSet(site.AcceptedSchemes)
	}
	if site.Headers != nil {
		out.Headers = mergeHeaders(base.Headers, site.Headers)
	}
	if site.MaxRedirects != nil {
		out.MaxRedirects = *site.MaxRedirects
	}
	if site.Timeout != "" {
		d, err := time.ParseDuration(site.Timeout)
		if err != nil {
			return SiteConfig{}, invalidField(fmt.Sprintf("sites.%s.timeout", name), err.Error())
		}
		out.Timeout = &d
	}
	if site.CacheMaxAge != "" {
		d, err := time.ParseDuration(site.CacheMaxAge)
		if err != nil {
			return SiteConfig{}, invalidField(fmt.Sprintf("sites.%s.cache_max_age", name), err.Error())
		}
		out.CacheMaxAge = d
	}
	if site.FragmentsIgnored != nil {
		out.FragmentsIgnored = *site.FragmentsIgnored
	}
	if site.Retry != nil {
		retry, err := compileRetry(name, base.Retry, site.Retry)
		if err != nil {
			return SiteConfig{}, err
		}
		out.Retry = retry
	}

	out.ID = name
	out.Recursive = baseRecursive || (site.Recurse != nil && *site.Recurse)
	return out, nil
}

func compileRetry(name string, base RetryPolicy, raw *RawRetry) (RetryPolicy, error) {
	out := base
	if raw.Count != nil {
		out.Count = *raw.Count
	}
	if raw.Factor != nil {
		out.Factor = *raw.Factor
	}
	if raw.Initial != "" {
		d, err := time.ParseDuration(raw.Initial)
		if err != nil {
			return RetryPolicy{}, invalidField(fmt.Sprintf("sites.%s.retry.initial", name), err.Error())
		}
		out.Initial = d
	}
	if raw.Cap != "" {
		d, err := time.ParseDuration(raw.Cap)
		if err != nil {
			return RetryPolicy{}, invalidField(fmt.Sprintf("sites.%s.retry.cap", name), err.Error())
		}
		out.Cap = &d
	}
	return out, nil
}

func toStatusSet(statuses []int) map[int]struct{} {
	set := make(map[int]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

func toStringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func indexRoots(cfg *Config, roots []string, site SiteConfig) error {
	for _, root := range roots {
		u, err := url.Parse(root)
		if err != nil {
			return invalidField("roots", fmt.Sprintf("invalid root URL %q: %v", root, err))
		}
		cfg.Seeds = append(cfg.Seeds, root)
		path := u.Path
		if path == "" {
			path = "/"
		}
		cfg.Hosts[u.Host] = append(cfg.Hosts[u.Host], PathRule{Prefix: path, Site: site})
	}
	return nil
}

// expandIgnoreRoots turns the roots of an `ignore: true` site into
// anchored, URL-escaped regexes rather than seeds (SPEC_FULL.md §4.1,
// "Roots").
func expandIgnoreRoots(cfg *Config, roots []string) error {
	for _, root := range roots {
		pattern := "^" + regexp.QuoteMeta(root)
		re, err := regexp.Compile(pattern)
		if err != nil {
			return invalidField("roots", fmt.Sprintf("could not compile ignore pattern for %q: %v", root, err))
		}
		cfg.IgnoreRegexes = append(cfg.IgnoreRegexes, re)
	}
	return nil
}

func applyGlobals(cfg *Config, raw *Raw) {
	if raw.Concurrency != nil {
		if raw.Concurrency.Global != nil {
			cfg.ConcurrencyGlobal = *raw.Concurrency.Global
		}
		if raw.Concurrency.PerSite != nil {
			cfg.ConcurrencyPerSite = *raw.Concurrency.PerSite
		}
	}
	if raw.Cache != nil && raw.Cache.Persistent != nil {
		cfg.PersistentCache = *raw.Cache.Persistent
	}
	if raw.RateLimit != nil {
		if raw.RateLimit.Supply != nil {
			cfg.RateLimitGlobal.Supply = *raw.RateLimit.Supply
			cfg.RateLimitPerSite.Supply = *raw.RateLimit.Supply
		}
		if raw.RateLimit.Window != "" {
			if d, err := time.ParseDuration(raw.RateLimit.Window); err == nil {
				cfg.RateLimitGlobal.Window = d
				cfg.RateLimitPerSite.Window = d
			}
		}
	}
}
