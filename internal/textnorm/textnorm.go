// Package textnorm cleans scraped text before pattern extraction.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultBoilerplate lists navigation phrases that never carry lead data.
var DefaultBoilerplate = []string{
	"Read more",
	"See more",
	"View more",
	"Show more",
	"Back to top",
	"Share this",
	"Add to favorites",
	"Add to favourites",
}

var replacer = strings.NewReplacer(
	"\u00a0", " ", // no-break space
	"\u2007", " ",
	"\u202f", " ",
	"\u200b", "", // zero width
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
	"\u2018", "'",
	"\u2019", "'",
	"\u201a", "'",
	"\u02bc", "'",
	"\u00b4", "'",
	"`", "'",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u201e", `"`,
	"\u00ab", `"`,
	"\u00bb", `"`,
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2012", "-",
	"\u2212", "-",
)

var spaceRun = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace and maps typographic quotes and dashes to ASCII.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = replacer.Replace(s)
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// StripBoilerplate removes each phrase case-insensitively and re-collapses whitespace.
func StripBoilerplate(s string, phrases []string) string {
	for _, p := range phrases {
		if p == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p) + `\b`)
		s = re.ReplaceAllString(s, " ")
	}
	return Normalize(s)
}

// FoldAccents strips diacritical marks ("Düsseldorf" -> "Dusseldorf").
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// Key is the comparison form used for lookups: folded, lowercased, single spaced.
func Key(s string) string {
	return strings.ToLower(Normalize(FoldAccents(s)))
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimRightFunc(string(r[:n]), unicode.IsSpace)
}
