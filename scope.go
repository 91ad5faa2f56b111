package docloom

import (
	"net/url"
	"strings"
)

// DefaultLocaleMarker restricts the crawl to one language variant of
// the documentation.
const DefaultLocaleMarker = "/en-US/"

// skipExtensions are binary and media files that are never
// documentation pages.
var skipExtensions = []string{".pdf", ".zip", ".png", ".jpg", ".jpeg", ".gif"}

// Scope describes the boundary of a crawl: a single host and a single
// path prefix. It is a pure value; classification has no side effects
// and performs no network access.
type Scope struct {
	// Host is the crawl domain, e.g. "developer.mozilla.org".
	Host string

	// PathPrefix is the start page's path; only its children are
	// followed, never siblings or ancestors.
	PathPrefix string

	// LocaleMarker must appear in a followed path. Defaults to
	// DefaultLocaleMarker when empty.
	LocaleMarker string
}

// NewScope derives a Scope from the crawl's starting URL.
func NewScope(startURL string) (*Scope, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid start URL %q: %v", startURL, err)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "start URL %q has no host", startURL)
	}
	return &Scope{
		Host:       u.Host,
		PathPrefix: strings.TrimSuffix(u.Path, "/"),
	}, nil
}

// ShouldFollow reports whether candidateURL is an in-scope
// documentation link worth crawling.
func (s *Scope) ShouldFollow(candidateURL string) bool {
	u, err := url.Parse(candidateURL)
	if err != nil {
		return false
	}
	if u.Fragment != "" || strings.Contains(candidateURL, "#") {
		return false
	}
	if u.Host != s.Host {
		return false
	}
	marker := s.LocaleMarker
	if marker == "" {
		marker = DefaultLocaleMarker
	}
	if !strings.Contains(u.Path, marker) {
		return false
	}
	if !strings.HasPrefix(u.Path, s.PathPrefix) {
		return false
	}
	lower := strings.ToLower(u.Path)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return true
}

// Contains reports whether a resolved URL lies under the scope's host
// and path prefix. Unlike ShouldFollow it ignores locale and extension
// rules; it is used for rewriting internal references to anchors.
func (s *Scope) Contains(u *url.URL) bool {
	if u.Host != s.Host {
		return false
	}
	return strings.HasPrefix(u.Path, s.PathPrefix)
}
