package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
)

// blockText returns the text to parse and the link targets found in the
// block's HTML. Links are searched for contacts only, never for the name.
func blockText(block lead.RawBlock) (text, links string, err error) {
	if strings.TrimSpace(block.HTML) == "" {
		return block.Text, "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(block.HTML))
	if err != nil {
		return "", "", fmt.Errorf("parse block html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		href = strings.TrimPrefix(href, "mailto:")
		href = strings.TrimPrefix(href, "tel:")
		if href != "" && !strings.HasPrefix(href, "#") && !strings.HasPrefix(href, "javascript:") {
			hrefs = append(hrefs, href)
		}
	})

	text = block.Text
	if strings.TrimSpace(text) == "" {
		text = HTMLText(doc.Selection)
	}
	return text, strings.Join(hrefs, " "), nil
}

// HTMLText flattens a selection to text, keeping element boundaries as
// spaces so that adjacent cells do not run together.
func HTMLText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			b.WriteString(s.Text())
			return
		}
		b.WriteByte(' ')
		b.WriteString(HTMLText(s))
		b.WriteByte(' ')
	})
	return b.String()
}
