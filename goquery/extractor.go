// Package goquery implements content extraction and link discovery
// over parsed HTML using CSS selectors.
//
// The extractor turns a documentation page into normalized markdown
// lines: it locates the main content region, segments it into
// heading-delimited sections, and renders each section's inline
// content, rewriting internal references to same-document anchors.
package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docloom/docloom"
	"golang.org/x/net/html"
)

// regionSelectors locate the main content region, tried in order.
var regionSelectors = []string{"main", "article", "#content, .content, [role=\"main\"]"}

// stripSelector matches non-content substructures removed before
// segmentation: interactive embedded examples, metadata/footer/TOC/
// sidebar blocks, and script/style payloads.
const stripSelector = "iframe.interactive, div.interactive, iframe.interactive-example, div.interactive-example, " +
	".metadata, .page-footer, .document-toc-container, .sidebar, script, style"

// blockSelector is the recognized block vocabulary. Everything else
// degenerates to plain text via the inline renderer.
const blockSelector = "h2, h3, h4, h5, h6, p, ul, ol, dl, pre"

// DefaultRefDenylist lists path segments whose targets are reference
// sections outside the compiled corpus; links into them stay external.
var DefaultRefDenylist = []string{"/api/"}

// Ensure Extractor implements docloom.Extractor at compile time.
var _ docloom.Extractor = (*Extractor)(nil)

// Extractor renders the main content of documentation pages to
// markdown lines. It is stateless across calls; extracting the same
// page twice yields identical output.
type Extractor struct {
	scope    *docloom.Scope
	denylist []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRefDenylist overrides the path-segment denylist used during link
// rewriting.
func WithRefDenylist(segments []string) Option {
	return func(e *Extractor) {
		e.denylist = segments
	}
}

// NewExtractor creates an Extractor that rewrites links internal to
// scope as same-document anchors.
func NewExtractor(scope *docloom.Scope, opts ...Option) *Extractor {
	e := &Extractor{
		scope:    scope,
		denylist: DefaultRefDenylist,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// section is a heading and the block elements accumulated before the
// next heading. The intro section has level 0 and no heading.
type section struct {
	level   int
	heading string
	blocks  []*html.Node
}

// Extract renders the page's main content region. Pages without a
// recognizable region return (nil, nil).
func (e *Extractor) Extract(rawHTML string, pageURL string) (*docloom.PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docloom.Errorf(docloom.EINVALID, "failed to parse HTML: %v", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docloom.Errorf(docloom.EINVALID, "invalid page URL %q: %v", pageURL, err)
	}

	region := findRegion(doc)
	if region == nil {
		return nil, nil
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = titleFromURL(base)
	}

	region.Find(stripSelector).Remove()
	// The title is re-emitted synthetically at the top of the output.
	region.Find("h1").First().Remove()

	r := newRenderer(e.scope, e.denylist, base)

	lines := []string{"# " + title, "", "Source: " + pageURL}
	for _, sec := range partition(region) {
		var body []string
		for _, block := range sec.blocks {
			if rendered := r.renderBlock(block); len(rendered) > 0 {
				body = append(body, rendered...)
				body = append(body, "")
			}
		}
		if len(body) == 0 {
			continue
		}
		if sec.level > 0 {
			if sec.heading == "" {
				continue
			}
			lines = append(lines, "", strings.Repeat("#", sec.level)+" "+sec.heading)
		}
		lines = append(lines, "")
		lines = append(lines, body...)
	}

	return &docloom.PageContent{
		Title:     title,
		SourceURL: pageURL,
		Lines:     collapseBlankLines(lines),
	}, nil
}

// findRegion tries the region selectors in order and returns the first
// match.
func findRegion(doc *goquery.Document) *goquery.Selection {
	for _, selector := range regionSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// titleFromURL derives a fallback title from the last path segment.
func titleFromURL(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return u.Host
	}
	return base
}

// partition flattens the region's recognized blocks into one ordered
// sequence and splits it at heading boundaries. Content before the
// first heading becomes an unheaded intro section. Blocks nested
// inside another matched block (a paragraph within a list item, say)
// are rendered by their container and skipped here.
func partition(region *goquery.Selection) []section {
	matches := region.Find(blockSelector)

	matched := make(map[*html.Node]bool, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		matched[s.Get(0)] = true
	})

	root := region.Get(0)
	var sections []section
	current := section{}

	matches.Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if hasMatchedAncestor(n, root, matched) {
			return
		}
		if name := goquery.NodeName(s); len(name) == 2 && name[0] == 'h' {
			sections = append(sections, current)
			current = section{
				level:   int(name[1] - '0'),
				heading: collapseSpace(s.Text()),
			}
			return
		}
		current.blocks = append(current.blocks, n)
	})
	sections = append(sections, current)

	return sections
}

// hasMatchedAncestor reports whether any ancestor of n, up to but not
// including root, is itself a matched block.
func hasMatchedAncestor(n, root *html.Node, matched map[*html.Node]bool) bool {
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if matched[p] {
			return true
		}
	}
	return false
}

// collapseBlankLines reduces runs of consecutive blank lines to one
// and trims trailing blanks.
func collapseBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return out
}
