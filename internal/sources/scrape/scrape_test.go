package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
<html><body>
  <article class="tile-item featured">
    <h2 class="tile-title">Primeira   notícia</h2>
    <p class="tile-description">Resumo um</p>
    <a href="/noticias/1">leia mais</a>
  </article>
  <article class="tile-item">
    <h2 class="tile-title">Segunda notícia</h2>
  </article>
  <div class="tile-item-footer">not an article</div>
</body></html>`

func TestFindAllMatchesClassTokens(t *testing.T) {
	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	articles := FindAll(doc, "article", "tile-item")
	assert.Len(t, articles, 2, "tile-item-footer must not match the tile-item token")
}

func TestFindAllAnyClass(t *testing.T) {
	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	assert.Len(t, FindAll(doc, "h2", ""), 2)
}

func TestFindReturnsFirstMatch(t *testing.T) {
	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	first := Find(doc, "h2", "tile-title")
	require.NotNil(t, first)
	assert.Equal(t, "Primeira notícia", Text(first))
}

func TestFindMissing(t *testing.T) {
	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	assert.Nil(t, Find(doc, "table", ""))
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "", Attr(nil, "href"))
}

func TestTextCollapsesWhitespace(t *testing.T) {
	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	article := Find(doc, "article", "tile-item")
	assert.Equal(t, "Primeira notícia Resumo um leia mais", Text(article))
}

func TestAttr(t *testing.T) {
	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	link := Find(doc, "a", "")
	assert.Equal(t, "/noticias/1", Attr(link, "href"))
	assert.Equal(t, "", Attr(link, "target"))
}
