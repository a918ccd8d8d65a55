package crawl

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/webvalidator/webvalidator/pkg/model"
)

// parseHTML extracts every link-bearing element from an HTML document,
// in document order: anchors, images, and <link href> references
// (stylesheets, sitemaps, and any other rel). Grounded on the
// teacher's goquery-based extraction in internal/scraper/extractor.go.
func parseHTML(body []byte) ([]model.Element, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var elements []model.Element

	doc.Find("a[href], img[src], link[href]").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "a":
			href, _ := s.Attr("href")
			elements = append(elements, model.NewElement("a", model.Attribute{Name: "href", Value: href}))
		case "img":
			src, _ := s.Attr("src")
			elements = append(elements, model.NewElement("img", model.Attribute{Name: "src", Value: src}))
		case "link":
			rel, _ := s.Attr("rel")
			href, _ := s.Attr("href")
			elements = append(elements, model.NewElement("link",
				model.Attribute{Name: "rel", Value: rel},
				model.Attribute{Name: "href", Value: href},
			))
		}
	})

	return elements, nil
}

// fragmentExists reports whether an element carrying id="frag" or, for
// anchors, name="frag" is present in an HTML body.
func fragmentExists(body []byte, frag string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return false
	}
	if doc.Find(fmt.Sprintf("[id=%q]", frag)).Length() > 0 {
		return true
	}
	return doc.Find(fmt.Sprintf("a[name=%q]", frag)).Length() > 0
}

// sitemapXML is the minimal shape shared by <urlset> and <sitemapindex>
// documents: a flat list of <loc> entries, whichever element wraps
// them.
type sitemapXML struct {
	XMLName xml.Name
	Locs    []string `xml:"url>loc"`
	Sitemap []string `xml:"sitemap>loc"`
}

// parseSitemap extracts every <loc> entry from a sitemap or
// sitemap-index document as a synthetic link-bearing Element.
// SPEC_FULL.md §4.5: a sitemap-index document is tried first, and its
// nested <sitemap><loc> entries are expected to themselves be Sitemap
// documents; only when it carries no such entries is the body treated
// as a flat <urlset> with no expected type on its entries.
func parseSitemap(body []byte) ([]model.Element, error) {
	var doc sitemapXML
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}

	if len(doc.Sitemap) > 0 {
		elements := make([]model.Element, 0, len(doc.Sitemap))
		for _, loc := range doc.Sitemap {
			elements = append(elements, model.NewElement("loc",
				model.Attribute{Name: "href", Value: loc},
				model.Attribute{Name: "kind", Value: "index"},
			))
		}
		return elements, nil
	}

	elements := make([]model.Element, 0, len(doc.Locs))
	for _, loc := range doc.Locs {
		elements = append(elements, model.NewElement("loc", model.Attribute{Name: "href", Value: loc}))
	}
	return elements, nil
}

// linkTarget returns the URL-bearing attribute value of el, if any.
func linkTarget(el model.Element) (string, bool) {
	switch el.Tag {
	case "a", "link", "loc":
		return el.Attr("href")
	case "img":
		return el.Attr("src")
	default:
		return "", false
	}
}

// elementExpectedType reports the DocumentType a fetch of el's target
// should be expected to match, per SPEC_FULL.md §4.5 step 3's
// caller-expectation input: anchors, images, and flat sitemap entries
// carry no expectation; a <link rel="sitemap"> or a nested
// sitemap-index <loc> both expect Sitemap. Recursion itself is never
// gated by tag — validateLink decides it from the resolved DocumentType.
func elementExpectedType(el model.Element) model.DocumentType {
	switch el.Tag {
	case "link":
		if rel, _ := el.Attr("rel"); rel == "sitemap" {
			return model.DocumentTypeSitemap
		}
	case "loc":
		if kind, _ := el.Attr("kind"); kind == "index" {
			return model.DocumentTypeSitemap
		}
	}
	return model.DocumentTypeUnset
}
