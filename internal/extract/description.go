package extract

import (
	"regexp"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
)

var (
	urlToken    = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	emailToken  = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	handleToken = regexp.MustCompile(`(?:^|\s)@[A-Za-z0-9_.]+`)
	phoneToken  = regexp.MustCompile(`(?i)(?:\b(?:T|Tel|Phone|P|Mobile|M)\s*[:.]\s*)?\+?\d[\d\s().\-]{6,}\d`)
	labelToken  = regexp.MustCompile(`(?i)\b(?:tel|phone|mobile|e-?mail|website|web|instagram|facebook)\s*:`)
)

// Description is the block text with the name, contacts, URLs and handles
// removed, collapsed and cut to limit runes. A non-positive limit means
// lead.MaxDescriptionLength.
func Description(text, name string, limit int) lead.Field {
	if limit <= 0 {
		limit = lead.MaxDescriptionLength
	}
	s := textnorm.Normalize(text)
	if name != "" {
		s = strings.Replace(s, name, " ", 1)
	}
	s = nameJunk.ReplaceAllString(s, " ")
	for _, re := range []*regexp.Regexp{urlToken, emailToken, handleToken, phoneToken, labelToken} {
		s = re.ReplaceAllString(s, " ")
	}
	s = strings.Trim(textnorm.Normalize(s), ",.;:-|/ ")
	return lead.Some(textnorm.Truncate(s, limit))
}
