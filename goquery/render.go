package goquery

import (
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/docloom/docloom"
	"golang.org/x/net/html"
)

// renderer converts block and inline elements to markdown text for one
// page. It tracks rendered code digests so a snippet appearing twice
// (say, standalone and inside a list item) is emitted only once.
type renderer struct {
	scope    *docloom.Scope
	denylist []string
	base     *url.URL
	seenCode map[uint64]bool
}

func newRenderer(scope *docloom.Scope, denylist []string, base *url.URL) *renderer {
	return &renderer{
		scope:    scope,
		denylist: denylist,
		base:     base,
		seenCode: make(map[uint64]bool),
	}
}

// renderBlock renders one top-level block element to output lines.
func (r *renderer) renderBlock(n *html.Node) []string {
	switch n.Data {
	case "ul", "ol":
		return r.renderList(n)
	case "dl":
		return r.renderDefinitionList(n)
	case "pre":
		return r.renderCodeBlock(n)
	default:
		if line := r.renderInline(n); line != "" {
			return []string{line}
		}
		return nil
	}
}

// renderList emits one bulleted line per direct list item.
func (r *renderer) renderList(n *html.Node) []string {
	var lines []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		if item := r.renderInline(c); item != "" {
			lines = append(lines, "- "+item)
		}
	}
	return lines
}

// renderDefinitionList emits a bold term line followed by an indented
// definition line per dt/dd pair.
func (r *renderer) renderDefinitionList(n *html.Node) []string {
	var lines []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "dt":
			if term := r.renderInline(c); term != "" {
				lines = append(lines, "**"+term+"**")
			}
		case "dd":
			if def := r.renderInline(c); def != "" {
				lines = append(lines, "    "+def)
			}
		}
	}
	return lines
}

// renderCodeBlock emits a fenced block, or nothing if the same code
// was already rendered on this page.
func (r *renderer) renderCodeBlock(n *html.Node) []string {
	code := strings.TrimSpace(textContent(n))
	if code == "" || !r.claimCode(code) {
		return nil
	}
	lines := []string{"```"}
	lines = append(lines, strings.Split(code, "\n")...)
	lines = append(lines, "```")
	return lines
}

// renderInline renders an element's mixed inline content to a single
// whitespace-collapsed string.
func (r *renderer) renderInline(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return collapseSpace(n.Data)
	case html.ElementNode:
	default:
		return ""
	}

	switch n.Data {
	case "a":
		return r.renderLink(n)
	case "code", "pre":
		code := strings.TrimSpace(textContent(n))
		if code == "" || !r.claimCode(code) {
			return ""
		}
		return "`" + code + "`"
	case "script", "style":
		return ""
	}

	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if part := r.renderInline(c); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return collapseSpace(textContent(n))
	}
	return strings.Join(parts, " ")
}

// renderLink renders an anchor as [text](href), rewriting internal
// documentation references to same-document anchors.
func (r *renderer) renderLink(n *html.Node) string {
	href := attr(n, "href")
	text := collapseSpace(textContent(n))
	if href == "" {
		return text
	}
	if hasDescendant(n, "code") {
		r.claimCode(strings.TrimSpace(textContent(n)))
		text = "`" + text + "`"
	}
	return "[" + text + "](" + r.rewriteHref(href) + ")"
}

// rewriteHref resolves href against the page URL and maps internal
// documentation references to anchor slugs. References into denylisted
// path segments stay external even when under the crawl domain; all
// other links pass through as resolved absolute URLs.
func (r *renderer) rewriteHref(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	resolved := r.base.ResolveReference(ref)

	if r.scope != nil && r.scope.Contains(resolved) && !r.isDenylisted(resolved.Path) {
		slug := docloom.Slugify(lastSegment(resolved.Path))
		if frag := docloom.Slugify(resolved.Fragment); frag != "" {
			slug += "-" + frag
		}
		return "#" + slug
	}
	return resolved.String()
}

func (r *renderer) isDenylisted(path string) bool {
	for _, segment := range r.denylist {
		if strings.Contains(path, segment) {
			return true
		}
	}
	return false
}

// claimCode registers a code snippet and reports whether this is its
// first occurrence on the page.
func (r *renderer) claimCode(code string) bool {
	if code == "" {
		return false
	}
	digest := xxhash.Sum64String(code)
	if r.seenCode[digest] {
		return false
	}
	r.seenCode[digest] = true
	return true
}

// lastSegment returns the last non-empty path segment.
func lastSegment(p string) string {
	segments := strings.Split(p, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

// textContent concatenates the raw visible text of a node's subtree.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// collapseSpace collapses runs of whitespace to single spaces and
// trims the ends.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// hasDescendant reports whether the subtree contains an element with
// the given tag.
func hasDescendant(n *html.Node, tag string) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return true
		}
		if hasDescendant(c, tag) {
			return true
		}
	}
	return false
}
