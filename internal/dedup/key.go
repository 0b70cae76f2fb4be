// Package dedup collapses lead records that describe the same entity into
// one record without losing any populated field.
package dedup

import (
	"regexp"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/urlnorm"
)

var (
	nameSuffix       = regexp.MustCompile(`\s+(?:showroom|sales department|sales contact|instagram|facebook|twitter)$`)
	trailingNamePunc = regexp.MustCompile(`[,.\-\s]+$`)
)

// freeMailDomains are shared by unrelated senders, so the full address is
// the identity instead of the domain.
var freeMailDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"yahoo.com":      true,
	"yahoo.fr":       true,
	"yahoo.it":       true,
	"hotmail.com":    true,
	"hotmail.fr":     true,
	"hotmail.it":     true,
	"outlook.com":    true,
	"live.com":       true,
	"icloud.com":     true,
	"me.com":         true,
	"aol.com":        true,
	"gmx.de":         true,
	"gmx.net":        true,
	"web.de":         true,
	"orange.fr":      true,
	"wanadoo.fr":     true,
	"libero.it":      true,
	"naver.com":      true,
	"qq.com":         true,
	"163.com":        true,
	"126.com":        true,
	"protonmail.com": true,
	"proton.me":      true,
}

// Key identifies an entity across sources.
type Key struct {
	Name    string
	City    string
	Contact string
}

// Empty reports whether the key carries nothing to merge on.
func (k Key) Empty() bool {
	return k.Name == "" && k.City == "" && k.Contact == ""
}

// place is the part of the key that must always agree.
func (k Key) place() placeKey {
	return placeKey{name: k.Name, city: k.City}
}

type placeKey struct{ name, city string }

// KeyOf derives the merge key of a record.
func KeyOf(r *lead.Record) Key {
	return Key{
		Name:    NormalizeName(r.Name),
		City:    textnorm.Key(r.Location.City.String()),
		Contact: ContactKey(r.Contact),
	}
}

// NormalizeName lowercases, folds accents and drops suffixes such as
// "showroom" that vary between sources for the same entity.
func NormalizeName(name string) string {
	n := textnorm.Key(name)
	n = nameSuffix.ReplaceAllString(n, "")
	n = trailingNamePunc.ReplaceAllString(n, "")
	return strings.TrimSpace(n)
}

// ContactKey prefers the website's registrable domain, then the email
// domain. Free-mail addresses are kept whole.
func ContactKey(c lead.Contact) string {
	if w, ok := c.Website.Get(); ok {
		if d, err := urlnorm.RegistrableDomain(w); err == nil && d != "" {
			return d
		}
	}
	email, ok := c.Email.Get()
	if !ok {
		return ""
	}
	email = strings.ToLower(strings.TrimSpace(email))
	domain := extract.EmailDomain(email)
	if domain == "" || freeMailDomains[domain] {
		return email
	}
	return domain
}
