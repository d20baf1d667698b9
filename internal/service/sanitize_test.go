package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererMarkdown(t *testing.T) {
	r := NewRenderer()

	t.Run("Basic markdown renders", func(t *testing.T) {
		out, err := r.Render("some **bold** text")

		require.NoError(t, err)
		assert.Contains(t, out, "<strong>bold</strong>")
	})

	t.Run("GFM strikethrough renders", func(t *testing.T) {
		out, err := r.Render("~~wrong~~ right")

		require.NoError(t, err)
		assert.Contains(t, out, "<del>wrong</del>")
	})

	t.Run("Hebrew passes through intact", func(t *testing.T) {
		out, err := r.Render("פתרון לשאלה 3")

		require.NoError(t, err)
		assert.Contains(t, out, "פתרון לשאלה 3")
	})
}

func TestRendererSanitizes(t *testing.T) {
	r := NewRenderer()

	t.Run("Script tags stripped", func(t *testing.T) {
		out, err := r.Render("hello <script>alert(1)</script>")

		require.NoError(t, err)
		assert.NotContains(t, out, "<script")
	})

	t.Run("Event handlers stripped", func(t *testing.T) {
		out, err := r.Render(`<img src="x" onerror="alert(1)">`)

		require.NoError(t, err)
		assert.NotContains(t, strings.ToLower(out), "onerror")
	})

	t.Run("Javascript links neutralized", func(t *testing.T) {
		out, err := r.Render("[click](javascript:alert(1))")

		require.NoError(t, err)
		assert.NotContains(t, out, "javascript:")
	})

	t.Run("Plain links survive", func(t *testing.T) {
		out, err := r.Render("[course site](https://example.com/course)")

		require.NoError(t, err)
		assert.Contains(t, out, `href="https://example.com/course"`)
	})
}
