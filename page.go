package docloom

import "context"

// PageContent is the extracted, rendered form of a single page.
// Lines are physical output lines, blank separators included, exactly
// as they will be written to the per-page content file.
type PageContent struct {
	Title     string
	SourceURL string
	Lines     []string
}

// Fetcher retrieves the raw markup of a URL.
type Fetcher interface {
	// Fetch returns the response body for the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases transport resources.
	Close() error
}

// Extractor extracts the main content of a page as rendered markdown
// lines.
type Extractor interface {
	// Extract locates the page's main content region and renders it.
	// A page without a recognizable content region returns (nil, nil):
	// an expected absence, not an error.
	Extract(html string, pageURL string) (*PageContent, error)
}

// Converter transforms an HTML fragment into markdown text.
type Converter interface {
	Convert(html string) (string, error)
}

// LinkFinder discovers outbound links on a page.
type LinkFinder interface {
	// Links returns the absolute URLs of all anchors on the page,
	// resolved against pageURL. The caller is responsible for scope
	// filtering.
	Links(html string, pageURL string) ([]string, error)
}
