package service

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpServiceEmbeddedPages(t *testing.T) {
	svc, err := NewHelpService()
	require.NoError(t, err)

	pages := svc.Pages()
	require.NotEmpty(t, pages)
	assert.Equal(t, "getting-started", pages[0].Slug)
	for _, p := range pages {
		assert.Empty(t, p.HTMLContent, "list view should not carry bodies")
	}

	page, err := svc.Page("printing")
	require.NoError(t, err)
	assert.Equal(t, "Printing a document", page.Title)
	assert.Contains(t, page.HTMLContent, "<ol>")

	_, err = svc.Page("nope")
	assert.ErrorIs(t, err, ErrHelpPageNotFound)
}

func TestHelpServiceOrderingAndFallbackTitle(t *testing.T) {
	fsys := fstest.MapFS{
		"help/zeta.md":       {Data: []byte("---\norder: 1\ntitle: Zeta\n---\nz")},
		"help/alpha.md":      {Data: []byte("---\norder: 1\ntitle: Alpha\n---\na")},
		"help/paper-jams.md": {Data: []byte("No frontmatter here.")},
		"help/notes.txt":     {Data: []byte("ignored")},
	}

	svc, err := newHelpService(fsys, "help")
	require.NoError(t, err)

	pages := svc.Pages()
	require.Len(t, pages, 3)
	assert.Equal(t, "Paper Jams", pages[0].Title)
	assert.Equal(t, "Alpha", pages[1].Title)
	assert.Equal(t, "Zeta", pages[2].Title)
}
