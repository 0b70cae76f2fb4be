package extract

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
)

// Profile selects the phone grammar.
type Profile string

const (
	// ProfileGeneric accepts loosely grouped international numbers without a canonical prefix.
	ProfileGeneric Profile = "generic"
	// ProfileUAE validates and re-renders UAE mobile, landline and toll-free numbers.
	ProfileUAE Profile = "uae"
)

// ErrUnknownProfile is returned by ParseProfile.
var ErrUnknownProfile = errors.New("unknown phone profile")

// ParseProfile maps a config value to a Profile. Blank means generic.
func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProfileGeneric:
		return ProfileGeneric, nil
	case ProfileUAE:
		return ProfileUAE, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProfile, s)
}

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

var (
	nonDigit = regexp.MustCompile(`\D`)

	uaeNational = regexp.MustCompile(`(?:\+?971|00971|0)?[-. ()]{0,2}\d{1,3}[-. ()]{0,2}\d{3}[-. ]?\d{4,}`)
	uaeTollFree = regexp.MustCompile(`\b800[-. ]?\d{2,4}[-. ]?\d{0,4}\b`)

	labelledPhone      = regexp.MustCompile(`(?i)(?:\b(?:tel|telephone|phone|mobile|mob)\.?\s*:?|\b[tpm]\s*[:.])\s*(\+?\d[\d\s().\-/]{5,}\d)`)
	internationalPhone = regexp.MustCompile(`\+\d[\d\s().\-]{6,}\d`)
)

// uaeRules validate a digits-only national number, in order.
var uaeRules = []Rule{
	{Name: "uae-mobile", Apply: func(d string) (string, bool) {
		if len(d) != 10 || !hasAnyPrefix(d, "050", "052", "054", "055", "056", "058") {
			return "", false
		}
		return fmt.Sprintf("+971 %s %s %s", d[1:3], d[3:6], d[6:]), true
	}},
	{Name: "uae-landline", Apply: func(d string) (string, bool) {
		if len(d) != 9 || !hasAnyPrefix(d, "02", "03", "04", "06", "07", "08", "09") {
			return "", false
		}
		return fmt.Sprintf("+971 %s %s %s", d[1:2], d[2:5], d[5:]), true
	}},
	{Name: "uae-toll-free", Apply: func(d string) (string, bool) {
		if !strings.HasPrefix(d, "800") || len(d) < 7 || len(d) > 10 {
			return "", false
		}
		return "800 " + d[3:], true
	}},
}

// genericGrammars find candidates in free text, in priority order.
var genericGrammars = []struct {
	name string
	re   *regexp.Regexp
	sub  int
}{
	{name: "labelled", re: labelledPhone, sub: 1},
	{name: "international", re: internationalPhone, sub: 0},
}

// PhoneExtractor finds phone numbers according to its profile.
type PhoneExtractor struct {
	Profile Profile
}

// NewPhoneExtractor returns an extractor for the given profile.
func NewPhoneExtractor(p Profile) PhoneExtractor {
	return PhoneExtractor{Profile: p}
}

// Phone returns the first valid number in text.
func (e PhoneExtractor) Phone(text string) lead.Field {
	all := e.Phones(text)
	if len(all) == 0 {
		return lead.None()
	}
	return lead.Some(all[0])
}

// Phones returns every distinct valid number in order of appearance.
func (e PhoneExtractor) Phones(text string) []string {
	if e.Profile == ProfileUAE {
		return uaePhones(text)
	}
	return genericPhones(text)
}

// NormalizeUAE canonicalizes a single UAE number candidate.
// "0501234567" -> "+971 50 123 4567", "043451234" -> "+971 4 345 1234".
func NormalizeUAE(candidate string) (string, bool) {
	digits := nonDigit.ReplaceAllString(candidate, "")
	switch {
	case strings.HasPrefix(digits, "00971"):
		digits = "0" + digits[5:]
	case strings.HasPrefix(digits, "971"):
		digits = "0" + digits[3:]
	}
	m, ok := firstMatch(uaeRules, digits)
	return m.Value, ok
}

// RevalidateUAE re-checks a stored phone cell, which may hold several
// comma-separated numbers, and keeps the distinct valid UAE numbers in
// canonical form. Nothing valid means absent.
func RevalidateUAE(cell string) lead.Field {
	var out []string
	for part := range strings.SplitSeq(cell, ",") {
		if v, ok := NormalizeUAE(part); ok && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return lead.Some(strings.Join(out, ", "))
}

// NormalizeGeneric collapses separators and checks the digit count.
func NormalizeGeneric(candidate string) (string, bool) {
	v := strings.Join(strings.Fields(candidate), " ")
	v = strings.TrimRight(strings.TrimLeft(v, " .-/"), " .-/(")
	if strings.HasPrefix(strings.TrimSpace(candidate), "+") && !strings.HasPrefix(v, "+") {
		v = "+" + v
	}
	n := len(nonDigit.ReplaceAllString(v, ""))
	if n < minPhoneDigits || n > maxPhoneDigits {
		return "", false
	}
	return v, true
}

func uaePhones(text string) []string {
	var out []string
	national := uaeNational.FindAllStringIndex(text, -1)
	for _, loc := range national {
		if v, ok := NormalizeUAE(text[loc[0]:loc[1]]); ok && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	// Toll-free numbers are too short for the national grammar; skip spans it already covered.
	for _, loc := range uaeTollFree.FindAllStringIndex(text, -1) {
		if overlaps(national, loc) {
			continue
		}
		if v, ok := NormalizeUAE(text[loc[0]:loc[1]]); ok && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func overlaps(spans [][]int, loc []int) bool {
	for _, s := range spans {
		if loc[0] < s[1] && s[0] < loc[1] {
			return true
		}
	}
	return false
}

func genericPhones(text string) []string {
	var out []string
	for _, g := range genericGrammars {
		for _, m := range g.re.FindAllStringSubmatch(text, -1) {
			if v, ok := NormalizeGeneric(m[g.sub]); ok && !containsDigits(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}

// containsDigits compares by digits only so "+33 1 23" and "+33 (1) 23" collapse.
func containsDigits(list []string, v string) bool {
	d := nonDigit.ReplaceAllString(v, "")
	for _, s := range list {
		if nonDigit.ReplaceAllString(s, "") == d {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
