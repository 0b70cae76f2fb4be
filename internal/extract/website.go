package extract

import (
	"regexp"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/urlnorm"
)

// websiteTLDs is the whitelist a website token must end in.
var websiteTLDs = []string{
	"com", "net", "org", "it", "fr", "de", "uk", "cn", "jp", "au", "kr", "nl", "be", "ch",
	"es", "dk", "se", "no", "at", "pt", "pl", "eu", "io", "co", "us", "ae", "hk", "sg",
	"tw", "in", "ru", "tr", "gr", "ie", "fi", "cz", "hu", "fashion", "shop", "store",
}

var websitePattern = regexp.MustCompile(
	`(?i)\b(?:https?://|www\.)[a-z0-9\-.]+\.(?:` + strings.Join(websiteTLDs, "|") + `)\b(?:/[^\s<>"'()]*)?`,
)

// DefaultIgnoredHosts are never a lead's own website.
var DefaultIgnoredHosts = []string{
	"modemonline.com",
	"instagram.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"linkedin.com",
	"pinterest.com",
	"youtube.com",
	"tiktok.com",
	"google.com",
	"goo.gl",
}

// WebsiteExtractor finds the first website that is not on the ignore list.
type WebsiteExtractor struct {
	IgnoredHosts []string
}

// Website returns the first acceptable website, prefixed with https:// when
// the token had no scheme.
func (e WebsiteExtractor) Website(text string) lead.Field {
	for _, tok := range websitePattern.FindAllString(text, -1) {
		tok = strings.TrimRight(tok, ".,;:!?/")
		if e.ignored(tok) {
			continue
		}
		return lead.Some(urlnorm.EnsureScheme(tok))
	}
	return lead.None()
}

func (e WebsiteExtractor) ignored(tok string) bool {
	domain, err := urlnorm.RegistrableDomain(tok)
	if err != nil {
		return true
	}
	for _, h := range e.IgnoredHosts {
		if domain == h || strings.HasSuffix(domain, "."+h) {
			return true
		}
	}
	return false
}
