package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webvalidator/webvalidator/pkg/model"
)

// TestSiteCycleDetection exercises scenario S1 from SPEC_FULL.md §8:
// sites a.extend=b, b.extend=a must fail with CircularSiteConfigs.
func TestSiteCycleDetection(t *testing.T) {
	doc := []byte(`
sites:
  a:
    extend: b
    roots: ["https://a.example/"]
  b:
    extend: a
    roots: ["https://b.example/"]
`)
	_, err := LoadBytes(doc)
	require.Error(t, err)
	kind, ok := model.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrConfig, kind)
	assert.Contains(t, err.Error(), "circular site extension")
}

func TestMissingParentConfig(t *testing.T) {
	doc := []byte(`
sites:
  a:
    extend: ghost
    roots: ["https://a.example/"]
`)
	_, err := LoadBytes(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `extends undefined site "ghost"`)
}

func TestMultipleDefaultSiteConfigs(t *testing.T) {
	doc := []byte(`
sites:
  a: {}
  b: {}
`)
	_, err := LoadBytes(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple default site configs")
}

// TestExtensionOrdering exercises SPEC_FULL.md §8 property 6:
// compiling a child's SiteConfig yields the same value as merging the
// declared child onto the resolved parent.
func TestExtensionOrdering(t *testing.T) {
	doc := []byte(`
sites:
  base:
    accepted_statuses: [200, 301]
    max_redirects: 5
  child:
    extend: base
    max_redirects: 9
    roots: ["https://example.com/docs"]
    recurse: true
`)
	cfg, err := LoadBytes(doc)
	require.NoError(t, err)

	rules := cfg.Hosts["example.com"]
	require.Len(t, rules, 1)
	site := rules[0].Site

	assert.Equal(t, 9, site.MaxRedirects, "child's explicit field wins")
	_, hasStatus := site.AcceptedStatuses[301]
	assert.True(t, hasStatus, "child inherits parent's set fields it did not override")
	assert.True(t, site.Recursive)
}

func TestRecursiveFlagIsTransitive(t *testing.T) {
	doc := []byte(`
sites:
  grandparent:
    recurse: true
  parent:
    extend: grandparent
  child:
    extend: parent
    roots: ["https://example.com/"]
`)
	cfg, err := LoadBytes(doc)
	require.NoError(t, err)
	require.Len(t, cfg.Seeds, 1)
	assert.True(t, cfg.Hosts["example.com"][0].Site.Recursive)
}

func TestNonRecursiveSiteRootsAreNotSeeds(t *testing.T) {
	doc := []byte(`
sites:
  a:
    roots: ["https://example.com/"]
`)
	cfg, err := LoadBytes(doc)
	require.NoError(t, err)
	assert.Empty(t, cfg.Seeds)
}

func TestIgnoreSiteExpandsToRegex(t *testing.T) {
	doc := []byte(`
sites:
  skip:
    ignore: true
    roots: ["https://example.com/private"]
`)
	cfg, err := LoadBytes(doc)
	require.NoError(t, err)
	require.Len(t, cfg.IgnoreRegexes, 1)
	assert.True(t, cfg.IgnoreRegexes[0].MatchString("https://example.com/private/secret"))
	assert.False(t, cfg.IgnoreRegexes[0].MatchString("https://example.com/public"))
}

func TestDefaultSiteConfigAppliesToUnmatchedHost(t *testing.T) {
	doc := []byte(`
sites:
  default:
    accepted_statuses: [200, 202]
  scoped:
    extend: default
    roots: ["https://example.com/"]
    recurse: true
`)
	cfg, err := LoadBytes(doc)
	require.NoError(t, err)
	_, ok := cfg.Default.AcceptedStatuses[202]
	assert.True(t, ok)

	site := cfg.SiteFor("other.example", "/whatever")
	_, ok = site.AcceptedStatuses[202]
	assert.True(t, ok, "unmatched host falls back to the default site config")
}

func TestHostPathLongestPrefixWins(t *testing.T) {
	doc := []byte(`
sites:
  shallow:
    roots: ["https://example.com/docs"]
    recurse: true
    max_redirects: 1
  deep:
    roots: ["https://example.com/docs/v2"]
    recurse: true
    max_redirects: 2
`)
	cfg, err := LoadBytes(doc)
	require.NoError(t, err)

	site := cfg.SiteFor("example.com", "/docs/v2/guide")
	assert.Equal(t, 2, site.MaxRedirects)

	site = cfg.SiteFor("example.com", "/docs/other")
	assert.Equal(t, 1, site.MaxRedirects)
}

func TestUnknownFieldRejected(t *testing.T) {
	doc := []byte(`
not_a_real_field: true
`)
	_, err := LoadBytes(doc)
	require.Error(t, err)
}
