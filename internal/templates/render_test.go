package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPage(t *testing.T) {
	r := NewEmbedded()
	out, err := r.Render("page", PageData{
		Title: "The Town",
		Slug:  "town",
		Body:  `<div class="docmap"></div>`,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "<title>The Town</title>")
	assert.Contains(t, out, "/api/v1/view/activate?slug=town")
	// Body is pre-rendered fragment HTML and must not be re-escaped.
	assert.Contains(t, out, `<div class="docmap"></div>`)
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := NewEmbedded()
	_, err := r.Render("no-such-fragment", nil)
	assert.Error(t, err)
}

func TestNewFallsBackToEmbedded(t *testing.T) {
	r, err := New(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	_, err = r.Render("page", PageData{Title: "x"})
	assert.NoError(t, err)
}

func TestNewPrefersDirectoryTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"),
		[]byte(`{{define "page"}}override {{.Title}}{{end}}`), 0644))

	r, err := New(dir)
	require.NoError(t, err)
	out, err := r.Render("page", PageData{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "override x", out)
}
