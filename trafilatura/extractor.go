// Package trafilatura implements content extraction with a generic
// readability engine instead of structural CSS selectors. It trades
// precise section segmentation for robustness on sites whose markup
// the structural extractor does not recognize.
package trafilatura

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/docloom/docloom"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docloom.Extractor at compile time.
var _ docloom.Extractor = (*Extractor)(nil)

// Extractor locates a page's main content with go-trafilatura and
// renders it to markdown through a Converter.
type Extractor struct {
	converter docloom.Converter
}

// NewExtractor creates an Extractor rendering through converter.
func NewExtractor(converter docloom.Converter) *Extractor {
	return &Extractor{converter: converter}
}

// Extract returns the page's readable content as markdown lines, or
// (nil, nil) when no content can be located.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*docloom.PageContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docloom.Errorf(docloom.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil || result.ContentNode == nil {
		// Trafilatura fails on boilerplate-only pages; treat that the
		// same as a page without a content region.
		return nil, nil
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, docloom.Errorf(docloom.EINTERNAL, "failed to render content: %v", err)
	}

	markdown, err := e.converter.Convert(contentHTML)
	if err != nil {
		return nil, err
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil, nil
	}

	title := strings.TrimSpace(result.Metadata.Title)
	if title == "" {
		title = titleFromURL(pageURL)
	}

	lines := []string{"# " + title, "", "Source: " + pageURL, ""}
	lines = append(lines, strings.Split(markdown, "\n")...)

	return &docloom.PageContent{
		Title:     title,
		SourceURL: pageURL,
		Lines:     lines,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// titleFromURL derives a fallback title from the last path segment.
func titleFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return u.Host
	}
	return base
}
