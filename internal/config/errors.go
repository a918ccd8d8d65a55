package config

import (
	"fmt"
	"strings"

	"github.com/webvalidator/webvalidator/pkg/model"
)

// CircularConfigFiles is raised when a canonical file path reappears
// in the `extend` chain stack.
func CircularConfigFiles(cycle []string) error {
	return model.NewError(model.ErrConfig, fmt.Sprintf("circular config file extension: %s", strings.Join(cycle, " -> ")), nil)
}

// MissingParentConfig is raised when a site's `extend` names a sibling
// that does not exist.
func MissingParentConfig(site, parent string) error {
	return model.NewError(model.ErrConfig, fmt.Sprintf("site %q extends undefined site %q", site, parent), nil)
}

// CircularSiteConfigs is raised with the exact members of the
// strongly-connected component containing the offending node.
func CircularSiteConfigs(cycle []string) error {
	return model.NewError(model.ErrConfig, fmt.Sprintf("circular site extension: %s", strings.Join(cycle, " -> ")), nil)
}

// MultipleDefaultSiteConfigs is raised when more than one site
// qualifies as the default (empty roots, no extend).
func MultipleDefaultSiteConfigs(sites []string) error {
	return model.NewError(model.ErrConfig, fmt.Sprintf("multiple default site configs: %s", strings.Join(sites, ", ")), nil)
}

func invalidField(field, reason string) error {
	return model.NewError(model.ErrConfig, fmt.Sprintf("%s: %s", field, reason), nil)
}
