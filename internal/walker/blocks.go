// Package walker turns listing pages into raw lead blocks, either from
// saved HTML or by fetching pages live.
package walker

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/parser"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
	"golang.org/x/net/html"
)

// DefaultMarker is the link text every listing entry carries.
const DefaultMarker = "Mini Website"

// DefaultContainers are tried nearest first when isolating an entry.
var DefaultContainers = []string{"tr", "li", "article", "div"}

// BlockOptions tune block isolation.
type BlockOptions struct {
	Marker     string
	Containers []string
}

func (o BlockOptions) withDefaults() BlockOptions {
	if strings.TrimSpace(o.Marker) == "" {
		o.Marker = DefaultMarker
	}
	if len(o.Containers) == 0 {
		o.Containers = DefaultContainers
	}
	return o
}

// Blocks isolates one block per marker link under root. The container of
// an entry is its nearest ancestor among the configured element names,
// unless that ancestor also holds other markers, in which case the link's
// parent is used.
// A container shared by several links yields a single block.
func Blocks(root *goquery.Selection, sourceURL string, opts BlockOptions) []lead.RawBlock {
	opts = opts.withDefaults()
	marker := strings.ToLower(opts.Marker)
	isMarker := func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(textnorm.Normalize(s.Text())), marker)
	}
	containerSel := strings.Join(opts.Containers, ", ")

	var (
		blocks []lead.RawBlock
		seen   = make(map[*html.Node]bool)
	)
	root.Find("a").FilterFunction(isMarker).Each(func(_ int, link *goquery.Selection) {
		container := link.Parent()
		if nearest := link.ParentsFiltered(containerSel).First(); nearest.Length() > 0 &&
			nearest.Find("a").FilterFunction(isMarker).Length() == 1 {
			container = nearest
		}
		if container.Length() == 0 {
			return
		}
		node := container.Get(0)
		if seen[node] {
			return
		}
		seen[node] = true

		markup, err := goquery.OuterHtml(container)
		if err != nil {
			return
		}
		blocks = append(blocks, lead.RawBlock{
			Text:      parser.HTMLText(container),
			HTML:      markup,
			SourceURL: sourceURL,
		})
	})
	return blocks
}

// BlocksFromHTML parses a saved page.
func BlocksFromHTML(r io.Reader, sourceURL string, opts BlockOptions) ([]lead.RawBlock, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return Blocks(doc.Selection, sourceURL, opts), nil
}
