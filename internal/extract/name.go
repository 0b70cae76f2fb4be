package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
)

const minNameLength = 2

var (
	// nameMarker ends the name part of a listing block.
	nameMarker = regexp.MustCompile(
		`\*?\s*(?i:mini\s*website)|\[|(?:^|\s)(?:Women's|Men's|M's/W's)(?:\s|$)|\bfrom\s+[A-Z]|\b(?i:sales\s+campaign)`,
	)
	trailingCapitalized = regexp.MustCompile(
		`(?:^|\s)([A-Z][A-Za-z0-9&'.\-]+(?:\s+[A-Z][A-Za-z0-9&'.\-]*){0,4})[\s.,;:]*$`,
	)
	nameJunk = regexp.MustCompile(`(?i)\*|\[|\]|mini\s*website`)

	sectionHeader = regexp.MustCompile(`(?i)^(?:sales\s+campaigns?|campaigns?|showrooms?|multi-label\s+showrooms?|` +
		`designer\s+showrooms?|exhibitors?|press\s+offices?|press|trade\s*shows?|contacts?|brands?|designers?|` +
		`collections?|women's|men's|fashion\s+weeks?|events?|calendar|news|home|search|menu|login|register|` +
		`newsletter|address|website|email|phone|instagram|facebook)\s*:?$`)
	salesCampaignPrefix = regexp.MustCompile(`(?i)^sales\s+campaign\b`)

	monthThenDay = regexp.MustCompile(`(?i)\b(?:` + monthNames + `)\s+\d{1,2}\b`)
	dayThenMonth = regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:` + monthNames + `)\b`)
	isoDate      = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	monthsOnly   = regexp.MustCompile(`(?i)^(?:(?:` + monthNames + `)[\s,\-]*)+(?:\d{4})?$`)
	seasonCode   = regexp.MustCompile(`(?i)^(?:SS|FW|AW|PF|PS|RE|SP|FA)\s?-?\d{2,4}$`)
	seasonWord   = regexp.MustCompile(`(?i)^(?:resort|cruise|pre-?fall|pre-?spring|spring(?:[\s/\-]+summer)?|` +
		`fall(?:[\s/\-]+winter)?|autumn(?:[\s/\-]+winter)?|summer|winter)\s*'?\d{2,4}$`)
)

// NameRules are tried in order; a rule's value is only accepted when it
// passes LooksLikeName.
var NameRules = []Rule{
	{Name: "before-marker", Apply: func(text string) (string, bool) {
		loc := nameMarker.FindStringIndex(text)
		if loc == nil {
			return "", false
		}
		return acceptName(text[:loc[0]])
	}},
	{Name: "trailing-capitalized", Apply: func(text string) (string, bool) {
		m := trailingCapitalized.FindStringSubmatch(withoutCategories(text))
		if m == nil {
			return "", false
		}
		return acceptName(m[1])
	}},
}

// Name returns the entity name of a block, or absent when neither rule
// yields an acceptable value. Callers reject the block in that case.
func Name(text string) lead.Field {
	return field(MatchName(text))
}

// MatchName is Name plus the winning rule.
func MatchName(text string) (Match, bool) {
	return firstMatch(NameRules, textnorm.Normalize(text))
}

// CleanName strips listing artifacts and trailing punctuation.
func CleanName(s string) string {
	s = nameJunk.ReplaceAllString(s, " ")
	s = textnorm.Normalize(s)
	return strings.TrimSpace(strings.TrimRight(s, ",.-:;|/ "))
}

// LooksLikeName rejects dates, season codes, section headers and other
// artifacts that listing pages put where a name would be.
func LooksLikeName(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < minNameLength || n > lead.MaxNameLength {
		return false
	}
	if !strings.ContainsFunc(s, unicode.IsLetter) {
		return false
	}
	if strings.Contains(strings.ToLower(s), "mini website") {
		return false
	}
	switch {
	case sectionHeader.MatchString(s), salesCampaignPrefix.MatchString(s):
		return false
	case seasonCode.MatchString(s), seasonWord.MatchString(s):
		return false
	case monthsOnly.MatchString(s), monthThenDay.MatchString(s), dayThenMonth.MatchString(s), isoDate.MatchString(s):
		return false
	}
	return true
}

// withoutCategories cuts category tags out of the text so a capitalized
// run can neither start with nor span one ("Women's RTW Acme Studio").
func withoutCategories(text string) string {
	return categoryPattern.ReplaceAllString(text, " ; ")
}

func acceptName(raw string) (string, bool) {
	name := CleanName(raw)
	if !LooksLikeName(name) {
		return "", false
	}
	return name, true
}

// RawName is the first non-empty name candidate before LooksLikeName is
// applied. It lets callers tell "nothing name-like" from "rejected name".
func RawName(text string) string {
	text = textnorm.Normalize(text)
	if loc := nameMarker.FindStringIndex(text); loc != nil {
		if c := CleanName(text[:loc[0]]); c != "" {
			return c
		}
	}
	if m := trailingCapitalized.FindStringSubmatch(withoutCategories(text)); m != nil {
		return CleanName(m[1])
	}
	return ""
}
