package htmltomarkdown_test

import (
	"testing"

	"github.com/docloom/docloom"
	"github.com/docloom/docloom/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings, emphasis and lists", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()

		md, err := c.Convert(`<h2>Usage</h2><p>Some <strong>bold</strong> text.</p><ul><li>item</li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "## Usage")
		assert.Contains(t, md, "**bold**")
		assert.Contains(t, md, "- item")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()

		md, err := c.Convert(`<table><tr><th>Name</th><th>Type</th></tr><tr><td>depth</td><td>int</td></tr></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "| Name | Type |")
		assert.Contains(t, md, "| depth | int |")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()

		_, err := c.Convert("   ")

		assert.Equal(t, docloom.EINVALID, docloom.ErrorCode(err))
	})
}
