package http_test

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	docloomhttp "github.com/docloom/docloom/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sitemapSite serves a configurable robots.txt and sitemap set.
type sitemapSite struct {
	robots   string
	sitemaps map[string]string
}

func (s *sitemapSite) server() *httptest.Server {
	return httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path == "/robots.txt" && s.robots != "" {
			fmt.Fprint(w, s.robots)
			return
		}
		if body, ok := s.sitemaps[r.URL.Path]; ok {
			fmt.Fprint(w, body)
			return
		}
		nethttp.NotFound(w, r)
	}))
}

func urlset(urls ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><urlset>`
	for _, u := range urls {
		body += "<url><loc>" + u + "</loc></url>"
	}
	return body + "</urlset>"
}

func TestSitemapDiscoverer_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("reads sitemaps named in robots.txt", func(t *testing.T) {
		t.Parallel()

		site := &sitemapSite{sitemaps: map[string]string{}}
		srv := site.server()
		defer srv.Close()
		site.robots = "User-agent: *\nSitemap: " + srv.URL + "/docs-sitemap.xml\n"
		site.sitemaps["/docs-sitemap.xml"] = urlset(srv.URL+"/docs/a", srv.URL+"/docs/b")

		d := docloomhttp.NewSitemapDiscoverer(srv.Client())
		urls, err := d.DiscoverURLs(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/a", srv.URL + "/docs/b"}, urls)
	})

	t.Run("falls back to /sitemap.xml without robots.txt", func(t *testing.T) {
		t.Parallel()

		site := &sitemapSite{sitemaps: map[string]string{}}
		srv := site.server()
		defer srv.Close()
		site.sitemaps["/sitemap.xml"] = urlset(srv.URL + "/docs/a")

		d := docloomhttp.NewSitemapDiscoverer(srv.Client())
		urls, err := d.DiscoverURLs(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/a"}, urls)
	})

	t.Run("recurses into sitemap index files and deduplicates", func(t *testing.T) {
		t.Parallel()

		site := &sitemapSite{sitemaps: map[string]string{}}
		srv := site.server()
		defer srv.Close()
		site.sitemaps["/sitemap.xml"] = `<?xml version="1.0"?><sitemapindex>` +
			"<sitemap><loc>" + srv.URL + "/part1.xml</loc></sitemap>" +
			"<sitemap><loc>" + srv.URL + "/part2.xml</loc></sitemap>" +
			"<sitemap><loc>" + srv.URL + "/part1.xml</loc></sitemap>" +
			"</sitemapindex>"
		site.sitemaps["/part1.xml"] = urlset(srv.URL+"/docs/a", srv.URL+"/docs/b")
		site.sitemaps["/part2.xml"] = urlset(srv.URL+"/docs/b", srv.URL+"/docs/c")

		d := docloomhttp.NewSitemapDiscoverer(srv.Client())
		urls, err := d.DiscoverURLs(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, []string{
			srv.URL + "/docs/a",
			srv.URL + "/docs/b",
			srv.URL + "/docs/c",
		}, urls)
	})

	t.Run("filters to the base URL path prefix", func(t *testing.T) {
		t.Parallel()

		site := &sitemapSite{sitemaps: map[string]string{}}
		srv := site.server()
		defer srv.Close()
		site.sitemaps["/sitemap.xml"] = urlset(
			srv.URL+"/docs/a",
			srv.URL+"/blog/post",
			srv.URL+"/docs",
		)

		d := docloomhttp.NewSitemapDiscoverer(srv.Client())
		urls, err := d.DiscoverURLs(context.Background(), srv.URL+"/docs")

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/a", srv.URL + "/docs"}, urls)
	})

	t.Run("returns an empty slice when no sitemap exists", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.NotFoundHandler())
		defer srv.Close()

		d := docloomhttp.NewSitemapDiscoverer(srv.Client())
		urls, err := d.DiscoverURLs(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	})
}
