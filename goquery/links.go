package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docloom/docloom"
)

// Ensure LinkFinder implements docloom.LinkFinder at compile time.
var _ docloom.LinkFinder = (*LinkFinder)(nil)

// LinkFinder discovers outbound links by scanning every anchor on the
// page. Scope filtering is the caller's concern.
type LinkFinder struct{}

// NewLinkFinder creates a new LinkFinder.
func NewLinkFinder() *LinkFinder {
	return &LinkFinder{}
}

// Links returns the absolute URLs of all anchors, resolved against
// pageURL in document order. Non-HTTP schemes (javascript:, mailto:,
// tel:, data:) are skipped.
func (l *LinkFinder) Links(rawHTML string, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docloom.Errorf(docloom.EINVALID, "invalid page URL %q: %v", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docloom.Errorf(docloom.EINVALID, "failed to parse HTML: %v", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", "")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})

	return links, nil
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be
// skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
