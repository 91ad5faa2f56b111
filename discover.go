package docloom

import "context"

// Discoverer lists candidate documentation URLs for a site without
// crawling it, e.g. from sitemaps. Used for previewing what a crawl
// would cover.
type Discoverer interface {
	// DiscoverURLs returns the URLs advertised for the site rooted at
	// baseURL. The result is unfiltered; callers apply Scope rules.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
