package extract

import (
	"slices"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/mcnijman/go-emailaddress"
)

// blockedEmailPrefixes are local-part prefixes of automated mailboxes.
var blockedEmailPrefixes = []string{
	"noreply@",
	"no-reply@",
	"no_reply@",
	"donotreply@",
	"mailer-daemon@",
}

// blockedEmailDomains never belong to a lead.
var blockedEmailDomains = []string{
	"example.com",
	"test.com",
	"localhost",
	"sentry.io",
	"wixpress.com",
	"sentry-next.wixpress.com",
}

// assetSuffixes catch retina image names like "logo@2x.png".
var assetSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".css", ".js"}

// Email returns the first valid address in text.
func Email(text string) lead.Field {
	all := Emails(text)
	if len(all) == 0 {
		return lead.None()
	}
	return lead.Some(all[0])
}

// Emails returns every distinct valid address in text, lowercased, in order of appearance.
func Emails(text string) []string {
	found := emailaddress.Find([]byte(text), false)
	out := make([]string, 0, len(found))
	for _, addr := range found {
		lower := strings.ToLower(addr.String())
		if !ValidEmail(lower) || slices.Contains(out, lower) {
			continue
		}
		out = append(out, lower)
	}
	return out
}

// ValidEmail checks syntax and the blocklists.
func ValidEmail(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	if _, err := emailaddress.Parse(s); err != nil {
		return false
	}
	for _, prefix := range blockedEmailPrefixes {
		if strings.HasPrefix(s, prefix) {
			return false
		}
	}
	for _, suffix := range assetSuffixes {
		if strings.HasSuffix(s, suffix) {
			return false
		}
	}
	domain := EmailDomain(s)
	if !strings.Contains(domain, ".") {
		return false
	}
	for _, blocked := range blockedEmailDomains {
		if domain == blocked || strings.HasSuffix(domain, "."+blocked) {
			return false
		}
	}
	return true
}

// EmailDomain returns the part after the last "@", lowercased.
func EmailDomain(s string) string {
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(s[at+1:])
}
