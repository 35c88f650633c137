package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownHTML(t *testing.T) {
	m := NewMarkdown()

	t.Run("renders headings and emphasis", func(t *testing.T) {
		out, err := m.HTML("# Exit planning\n\nSell *before* you need to.")
		require.NoError(t, err)
		assert.Contains(t, out, "<h1")
		assert.Contains(t, out, "Exit planning</h1>")
		assert.Contains(t, out, "<em>before</em>")
	})

	t.Run("renders GFM tables", func(t *testing.T) {
		out, err := m.HTML("| a | b |\n|---|---|\n| 1 | 2 |\n")
		require.NoError(t, err)
		assert.Contains(t, out, "<table>")
	})

	t.Run("strips scripts and handlers", func(t *testing.T) {
		out, err := m.HTML("hello <script>alert(1)</script> <a href=\"javascript:alert(1)\" onclick=\"x()\">x</a>")
		require.NoError(t, err)
		assert.NotContains(t, out, "<script")
		assert.NotContains(t, out, "javascript:")
		assert.NotContains(t, out, "onclick")
	})

	t.Run("links get nofollow", func(t *testing.T) {
		out, err := m.HTML("[site](https://example.com)")
		require.NoError(t, err)
		assert.Contains(t, out, `rel="nofollow"`)
	})
}
