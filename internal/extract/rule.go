// Package extract holds the pattern extractors that pull single values out
// of a normalized text block. Every extractor is an ordered list of named
// rules; the first rule that yields a value wins, and absence is never an
// error.
package extract

import "github.com/jonesrussell/north-cloud/leadharvest/internal/lead"

// Rule is one named grammar of an extractor.
type Rule struct {
	Name  string
	Apply func(text string) (string, bool)
}

// Match is the winning rule and its value.
type Match struct {
	Rule  string
	Value string
}

// firstMatch runs rules in order and returns the first hit.
func firstMatch(rules []Rule, text string) (Match, bool) {
	for _, r := range rules {
		if v, ok := r.Apply(text); ok && v != "" {
			return Match{Rule: r.Name, Value: v}, true
		}
	}
	return Match{}, false
}

func field(m Match, ok bool) lead.Field {
	if !ok {
		return lead.None()
	}
	return lead.Some(m.Value)
}
