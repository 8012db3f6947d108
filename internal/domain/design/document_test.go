package design_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curaOS/Creative-Project/internal/domain/design"
)

func TestAssemble_Deterministic(t *testing.T) {
	a := design.Assemble(7, "pkg()", "draw()", "body{margin:0}")
	b := design.Assemble(7, "pkg()", "draw()", "body{margin:0}")

	assert.Equal(t, a.HTML(), b.HTML())
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestAssemble_SeedOnlyChangesSnippet(t *testing.T) {
	a := design.Assemble(1, "pkg()", "draw()", "canvas{}")
	b := design.Assemble(1024, "pkg()", "draw()", "canvas{}")

	require.NotEqual(t, a.HTML(), b.HTML())

	strippedA := strings.Replace(a.HTML(), design.SeedSnippet(1), "", 1)
	strippedB := strings.Replace(b.HTML(), design.SeedSnippet(1024), "", 1)
	assert.Equal(t, strippedA, strippedB)
}

func TestAssemble_FragmentOrder(t *testing.T) {
	doc := design.Assemble(42, "p", "r", "s")
	html := doc.HTML()

	snippet := "<script>let SEED = 42;</script>"
	require.Equal(t, 1, strings.Count(html, snippet))
	require.Equal(t, 1, strings.Count(html, "let SEED"))

	seedAt := strings.Index(html, snippet)
	pAt := strings.Index(html, "<script>p</script>")
	rAt := strings.Index(html, "<script>r</script>")
	sAt := strings.Index(html, "<style>s</style>")

	require.NotEqual(t, -1, pAt)
	require.NotEqual(t, -1, rAt)
	require.NotEqual(t, -1, sAt)
	assert.Less(t, seedAt, pAt)
	assert.Less(t, pAt, rAt)
	assert.Less(t, rAt, sAt)

	assert.Equal(t, 42, doc.Seed)
}

func TestDocument_Zero(t *testing.T) {
	var d design.Document
	assert.True(t, d.IsZero())
	assert.ErrorIs(t, d.Validate(), design.ErrEmptyDocument)

	assert.NoError(t, design.Assemble(3, "", "", "").Validate())
}
