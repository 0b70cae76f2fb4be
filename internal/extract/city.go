package extract

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
)

// CityMatcher finds the best known city mentioned in a block.
//
// Candidates are ordered by name length, longest first, so that a longer
// name always shadows any shorter name it contains ("New York" before
// "York"). This ordering is part of the matcher's contract.
type CityMatcher struct {
	patterns  []string // folded, lowercased; same index as canonical
	canonical []string

	mu      sync.Mutex // ahocorasick.Matcher mutates its hit counters on Match
	matcher *ahocorasick.Matcher
}

// NewCityMatcher compiles the gazetteer names and their aliases (alias -> canonical).
func NewCityMatcher(cities []string, aliases map[string]string) *CityMatcher {
	m := &CityMatcher{}
	seen := make(map[string]bool)
	add := func(name, canonical string) {
		p := textnorm.Key(name)
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		m.patterns = append(m.patterns, p)
		m.canonical = append(m.canonical, canonical)
	}
	for _, c := range cities {
		add(c, c)
	}
	aliasNames := make([]string, 0, len(aliases))
	for a := range aliases {
		aliasNames = append(aliasNames, a)
	}
	slices.Sort(aliasNames)
	for _, a := range aliasNames {
		add(a, aliases[a])
	}
	if len(m.patterns) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(m.patterns)
	}
	return m
}

// Len is the number of compiled names, aliases included.
func (m *CityMatcher) Len() int {
	return len(m.patterns)
}

// City returns the canonical name of the longest gazetteer entry that appears
// in text as a capitalized whole word.
func (m *CityMatcher) City(text string) lead.Field {
	if m.matcher == nil || text == "" {
		return lead.None()
	}
	folded := textnorm.Normalize(textnorm.FoldAccents(text))
	lower := strings.ToLower(folded)

	m.mu.Lock()
	hits := m.matcher.Match([]byte(lower))
	m.mu.Unlock()
	if len(hits) == 0 {
		return lead.None()
	}

	slices.SortStableFunc(hits, func(a, b int) int {
		if c := cmp.Compare(len(m.patterns[b]), len(m.patterns[a])); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	sameLayout := len(lower) == len(folded)
	for _, h := range hits {
		if m.occursAsName(lower, folded, m.patterns[h], sameLayout) {
			return lead.Some(m.canonical[h])
		}
	}
	return lead.None()
}

// occursAsName checks word boundaries and, when byte offsets line up, that
// the mention is capitalized ("Nice" the city, not "nice" the adjective).
func (m *CityMatcher) occursAsName(lower, folded, pattern string, sameLayout bool) bool {
	for start := 0; start < len(lower); {
		i := strings.Index(lower[start:], pattern)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(pattern)
		if isBoundary(lower, i-1, true) && isBoundary(lower, end, false) {
			if !sameLayout {
				return true
			}
			r, _ := utf8.DecodeRuneInString(folded[i:])
			if unicode.IsUpper(r) {
				return true
			}
		}
		start = i + 1
	}
	return false
}

func isBoundary(s string, idx int, before bool) bool {
	if idx < 0 || idx >= len(s) {
		return true
	}
	var r rune
	if before {
		r, _ = utf8.DecodeLastRuneInString(s[:idx+1])
	} else {
		r, _ = utf8.DecodeRuneInString(s[idx:])
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
