package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(title, body string) string {
	return fmt.Sprintf(`<html><body><main><h1>%s</h1>%s</main></body></html>`, title, body)
}

// docsSite serves a two-page documentation site under /en-US/docs/start.
func docsSite() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/en-US/docs/start", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, page("Start", `<p>Welcome to the docs.</p><p><a href="/en-US/docs/start/child">Child</a></p>`))
	})
	mux.HandleFunc("/en-US/docs/start/child", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, page("Child", `<p>Child page body.</p>`))
	})
	return httptest.NewServer(mux)
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errw bytes.Buffer
	err = NewMain().Run(context.Background(), args, &out, &errw)
	return out.String(), errw.String(), err
}

func TestRun(t *testing.T) {
	t.Run("requires arguments", func(t *testing.T) {
		_, _, err := run(t)
		assert.EqualError(t, err, "no arguments provided")
	})

	t.Run("rejects unknown flags", func(t *testing.T) {
		_, _, err := run(t, "https://docs.test/start", "--bogus")
		assert.Error(t, err)
	})

	t.Run("rejects unknown engines", func(t *testing.T) {
		_, _, err := run(t, "https://docs.test/start", "--engine", "psychic")
		assert.Error(t, err)
	})

	t.Run("help returns without error", func(t *testing.T) {
		stdout, _, err := run(t, "--help")
		require.NoError(t, err)
		assert.Contains(t, stdout, "docloom")
	})

	t.Run("crawls and compiles a site end to end", func(t *testing.T) {
		srv := docsSite()
		defer srv.Close()
		out := t.TempDir()
		dbPath := filepath.Join(out, "manifest.db")

		stdout, _, err := run(t,
			srv.URL+"/en-US/docs/start",
			"--out", out,
			"--db", dbPath,
			"--interval", "1ms",
			"--verbose",
		)

		require.NoError(t, err)
		assert.Contains(t, stdout, "Saved 2 pages")

		for _, name := range []string{"start.md", "child.md", "structure.json", "compiled-documentation.md"} {
			_, err := os.Stat(filepath.Join(out, name))
			assert.NoError(t, err, name)
		}

		compiled, err := os.ReadFile(filepath.Join(out, "compiled-documentation.md"))
		require.NoError(t, err)
		doc := string(compiled)
		assert.True(t, strings.HasPrefix(doc, "# Table of Contents\n"))
		assert.Contains(t, doc, "- [Start](#start)")
		assert.Contains(t, doc, "  - [Child](#child)")
		assert.Contains(t, doc, "<div id=\"child\">")
		assert.Contains(t, doc, "Child page body.")

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("preview lists sitemap URLs without fetching pages", func(t *testing.T) {
		mux := http.NewServeMux()
		var docFetches int
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprintf(w, `<?xml version="1.0"?><urlset><url><loc>%s</loc></url></urlset>`,
				"https://docs.test/en-US/docs/start")
		})
		mux.HandleFunc("/en-US/", func(w http.ResponseWriter, r *http.Request) {
			docFetches++
			http.NotFound(w, r)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		stdout, _, err := run(t, srv.URL, "--preview")

		require.NoError(t, err)
		assert.Contains(t, stdout, "https://docs.test/en-US/docs/start")
		assert.Contains(t, stdout, "1 URLs")
		assert.Zero(t, docFetches)
	})
}
