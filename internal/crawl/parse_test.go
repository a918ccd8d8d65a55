package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webvalidator/webvalidator/pkg/model"
)

func TestParseHTMLExtractsAllLinkKinds(t *testing.T) {
	body := []byte(`<html><head>
<link rel="stylesheet" href="/style.css">
<link rel="sitemap" href="/sitemap.xml">
</head><body>
<a href="/page">page</a>
<img src="/logo.png">
</body></html>`)

	elements, err := parseHTML(body)
	require.NoError(t, err)
	require.Len(t, elements, 4)

	tags := make(map[string]int)
	for _, el := range elements {
		tags[el.Tag]++
	}
	assert.Equal(t, 1, tags["a"])
	assert.Equal(t, 1, tags["img"])
	assert.Equal(t, 2, tags["link"])
}

func TestElementExpectedTypeNoExpectationForAnchorsAndImages(t *testing.T) {
	a := model.NewElement("a", model.Attribute{Name: "href", Value: "/x"})
	img := model.NewElement("img", model.Attribute{Name: "src", Value: "/x.png"})
	assert.Equal(t, model.DocumentTypeUnset, elementExpectedType(a))
	assert.Equal(t, model.DocumentTypeUnset, elementExpectedType(img))
}

func TestElementExpectedTypeSitemapLinkExpectsSitemap(t *testing.T) {
	sitemapLink := model.NewElement("link",
		model.Attribute{Name: "rel", Value: "sitemap"},
		model.Attribute{Name: "href", Value: "/sitemap.xml"},
	)
	stylesheet := model.NewElement("link",
		model.Attribute{Name: "rel", Value: "stylesheet"},
		model.Attribute{Name: "href", Value: "/style.css"},
	)
	assert.Equal(t, model.DocumentTypeSitemap, elementExpectedType(sitemapLink))
	assert.Equal(t, model.DocumentTypeUnset, elementExpectedType(stylesheet))
}

func TestParseSitemapIndexEntriesExpectSitemap(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/sitemap-a.xml</loc></sitemap>
  <sitemap><loc>https://example.com/sitemap-b.xml</loc></sitemap>
</sitemapindex>`)

	elements, err := parseSitemap(body)
	require.NoError(t, err)
	require.Len(t, elements, 2)
	for _, el := range elements {
		assert.Equal(t, "loc", el.Tag)
		assert.Equal(t, model.DocumentTypeSitemap, elementExpectedType(el))
	}
}

func TestParseSitemapFlatEntriesHaveNoExpectation(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/a</loc></url>
  <url><loc>https://example.com/b</loc></url>
</urlset>`)

	elements, err := parseSitemap(body)
	require.NoError(t, err)
	require.Len(t, elements, 2)
	for _, el := range elements {
		assert.Equal(t, "loc", el.Tag)
		assert.Equal(t, model.DocumentTypeUnset, elementExpectedType(el))
	}
}

func TestLinkTargetResolvesHrefOrSrcByTag(t *testing.T) {
	a := model.NewElement("a", model.Attribute{Name: "href", Value: "/x"})
	target, ok := linkTarget(a)
	require.True(t, ok)
	assert.Equal(t, "/x", target)

	img := model.NewElement("img", model.Attribute{Name: "src", Value: "/x.png"})
	target, ok = linkTarget(img)
	require.True(t, ok)
	assert.Equal(t, "/x.png", target)

	unknown := model.NewElement("script", model.Attribute{Name: "src", Value: "/x.js"})
	_, ok = linkTarget(unknown)
	assert.False(t, ok)
}
