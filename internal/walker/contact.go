package walker

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/parser"
)

var contactLinkText = regexp.MustCompile(`(?i)\b(?:contact|contacts|contact us|about|about us|kontakt|contatti)\b`)

// ContactPage is one page of a lead's own site, flattened for the
// contact extractors.
type ContactPage struct {
	URL  string
	Text string
	// Links holds href targets with any mailto: or tel: scheme removed.
	Links []string
	// ContactURL is the first same-host link labelled Contact or About,
	// absolute. Empty when the page has none.
	ContactURL string
}

// FetchContactPage visits a lead's website and returns its text and links.
func (f *CollyFetcher) FetchContactPage(ctx context.Context, pageURL string) (ContactPage, error) {
	page := ContactPage{URL: pageURL}
	err := f.visit(ctx, pageURL, func(e *colly.HTMLElement) {
		e.DOM.Find("script, style, noscript").Remove()
		page.Text = parser.HTMLText(e.DOM.Find("body"))
		page.Links, page.ContactURL = contactLinks(e.DOM, e.Request.URL)
	})
	if err != nil {
		return ContactPage{}, err
	}
	return page, nil
}

func contactLinks(doc *goquery.Selection, base *url.URL) (links []string, contactURL string) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		switch {
		case href == "", strings.HasPrefix(href, "#"), strings.HasPrefix(strings.ToLower(href), "javascript:"):
			return
		case strings.HasPrefix(strings.ToLower(href), "mailto:"):
			links = append(links, strings.SplitN(href[len("mailto:"):], "?", 2)[0])
			return
		case strings.HasPrefix(strings.ToLower(href), "tel:"):
			links = append(links, href[len("tel:"):])
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		links = append(links, abs.String())
		if contactURL == "" && strings.EqualFold(abs.Host, base.Host) &&
			contactLinkText.MatchString(strings.TrimSpace(s.Text())) {
			abs.Fragment = ""
			contactURL = abs.String()
		}
	})
	return links, contactURL
}
