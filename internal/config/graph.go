package config

import "sort"

// resolveSiteOrder topologically sorts the named sites so that every
// site's `extend` parent (if any) precedes it, per SPEC_FULL.md §4.1
// step 2. MissingParentConfig is reported immediately; a cycle is
// reported as CircularSiteConfigs naming the cycle's members.
func resolveSiteOrder(sites map[string]*RawSite) ([]string, error) {
	for name, site := range sites {
		if site.Extend != "" {
			if _, ok := sites[site.Extend]; !ok {
				return nil, MissingParentConfig(name, site.Extend)
			}
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(sites))
	order := make([]string, 0, len(sites))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			idx := 0
			for i, n := range stack {
				if n == name {
					idx = i
					break
				}
			}
			cycle := append(append([]string{}, stack[idx:]...), name)
			return CircularSiteConfigs(cycle)
		}

		state[name] = visiting
		stack = append(stack, name)

		if parent := sites[name].Extend; parent != "" {
			if err := visit(parent); err != nil {
				return err
			}
		}

		state[name] = done
		stack = stack[:len(stack)-1]
		order = append(order, name)
		return nil
	}

	names := make([]string, 0, len(sites))
	for name := range sites {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
