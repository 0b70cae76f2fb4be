package walker_test

import (
	"strings"
	"testing"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageURL = "https://www.example.com/fashion/paris/showrooms"

// listingHTML has two table rows, one list entry and two paragraphs that
// sit in no container element.
const listingHTML = `<!DOCTYPE html>
<html>
<head><title>Showrooms</title><script>var marker = "Mini Website";</script></head>
<body>
  <nav><a href="/">Home</a></nav>
  <table>
    <tr><td>Acme Showroom</td><td><a href="/m/acme">* Mini Website</a></td>
        <td>12 rue de la Paix, Paris</td><td><a href="mailto:hello@acme.com">hello@acme.com</a></td></tr>
    <tr><td>Beta Studio</td><td><a href="/m/beta">Mini Website</a></td><td>Milan</td></tr>
  </table>
  <ul>
    <li>Gamma Agency <a href="/m/gamma">Mini website</a> +33 1 23 45 67 89</li>
  </ul>
  <section>
    <p><span>Delta</span> <a href="/m/delta">Mini Website</a></p>
    <p><span>Delta Two</span> <a href="/m/delta2">Mini Website</a></p>
  </section>
</body>
</html>`

func TestBlocksFromHTML(t *testing.T) {
	t.Parallel()

	blocks, err := walker.BlocksFromHTML(strings.NewReader(listingHTML), pageURL, walker.BlockOptions{})
	require.NoError(t, err)
	require.Len(t, blocks, 5)

	assert.Contains(t, blocks[0].Text, "Acme Showroom")
	assert.Contains(t, blocks[0].Text, "hello@acme.com")
	assert.NotContains(t, blocks[0].Text, "Beta")
	assert.True(t, strings.HasPrefix(blocks[0].HTML, "<tr>"))
	assert.Contains(t, blocks[1].Text, "Beta Studio")
	assert.Contains(t, blocks[2].Text, "Gamma Agency")
	assert.True(t, strings.HasPrefix(blocks[2].HTML, "<li>"))
	assert.Contains(t, blocks[3].Text, "Delta")
	assert.NotContains(t, blocks[3].Text, "Delta Two")

	for _, b := range blocks {
		assert.Equal(t, pageURL, b.SourceURL)
	}
}

func TestBlocksSharedContainerYieldsOneBlock(t *testing.T) {
	t.Parallel()

	const page = `<div class="entry">Acme <a href="/a">Mini Website</a> <a href="/b">Mini Website</a></div>`
	blocks, err := walker.BlocksFromHTML(strings.NewReader(page), pageURL, walker.BlockOptions{})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0].Text, "Acme")
}

func TestBlocksCustomMarker(t *testing.T) {
	t.Parallel()

	const page = `<ul><li>Acme <a href="/a">View profile</a></li><li>Beta <a href="/b">Mini Website</a></li></ul>`
	blocks, err := walker.BlocksFromHTML(strings.NewReader(page), pageURL,
		walker.BlockOptions{Marker: "view profile", Containers: []string{"li"}})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0].Text, "Acme")
}

func TestBlocksNoMarkers(t *testing.T) {
	t.Parallel()

	blocks, err := walker.BlocksFromHTML(strings.NewReader(`<p>nothing here</p>`), pageURL, walker.BlockOptions{})
	require.NoError(t, err)
	assert.Empty(t, blocks)
}
