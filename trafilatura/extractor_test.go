package trafilatura_test

import (
	"strings"
	"testing"

	"github.com/docloom/docloom"
	"github.com/docloom/docloom/mock"
	"github.com/docloom/docloom/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><head><title>Understanding Closures</title></head><body>
<nav><a href="/">Home</a> <a href="/docs">Docs</a></nav>
<article>
<h1>Understanding Closures</h1>
<p>A closure is the combination of a function bundled together with references
to its surrounding state, the lexical environment in which it was declared.</p>
<p>In practical terms, a closure gives a function access to the variables of
the scope that created it, even after that scope has finished executing.</p>
<p>Closures are created every time a function is created, at function creation
time, and they underpin patterns like callbacks and module encapsulation.</p>
</article>
<footer>Copyright notice and unrelated boilerplate text.</footer>
</body></html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts readable content and renders it through the converter", func(t *testing.T) {
		t.Parallel()

		var gotHTML string
		e := trafilatura.NewExtractor(&mock.Converter{ConvertFn: func(html string) (string, error) {
			gotHTML = html
			return "converted markdown body", nil
		}})

		content, err := e.Extract(articleHTML, "https://docs.test/closures")

		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Contains(t, gotHTML, "lexical environment")
		assert.Equal(t, []string{
			"# " + content.Title,
			"",
			"Source: https://docs.test/closures",
			"",
			"converted markdown body",
		}, content.Lines)
	})

	t.Run("falls back to a URL-derived title", func(t *testing.T) {
		t.Parallel()

		page := strings.Replace(articleHTML, "<title>Understanding Closures</title>", "", 1)
		page = strings.Replace(page, "<h1>Understanding Closures</h1>", "", 1)
		e := trafilatura.NewExtractor(&mock.Converter{ConvertFn: func(string) (string, error) {
			return "body", nil
		}})

		content, err := e.Extract(page, "https://docs.test/guide/Closures")

		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Equal(t, "Closures", content.Title)
	})

	t.Run("treats unextractable pages as having no content region", func(t *testing.T) {
		t.Parallel()

		e := trafilatura.NewExtractor(&mock.Converter{ConvertFn: func(string) (string, error) {
			return "", nil
		}})

		content, err := e.Extract(`<html><body><nav><a href="/">Home</a></nav></body></html>`,
			"https://docs.test/empty")

		require.NoError(t, err)
		assert.Nil(t, content)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		e := trafilatura.NewExtractor(&mock.Converter{})

		_, err := e.Extract("", "https://docs.test/empty")

		assert.Equal(t, docloom.EINVALID, docloom.ErrorCode(err))
	})
}
