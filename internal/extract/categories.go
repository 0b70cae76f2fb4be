package extract

import (
	"regexp"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
)

// CategorySeparator joins category tags in a single field.
const CategorySeparator = ", "

var categoryPattern = regexp.MustCompile(
	`(?i)\b(Women's|Men's|M's/W's|M's|W's)\s+(RTW|Acc\.|Accessories|Shoes|Bags|Jewelry|Jewellery|Lingerie|Swimwear|Eyewear)`,
)

// Categories returns the distinct category tags of a block in order of appearance.
func Categories(text string) lead.Field {
	return lead.Some(strings.Join(CategoryTags(text), CategorySeparator))
}

// CategoryTags is Categories before joining.
func CategoryTags(text string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range categoryPattern.FindAllStringSubmatch(textnorm.Normalize(text), -1) {
		tag := m[1] + " " + m[2]
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}
	return tags
}

// SplitCategories undoes Categories.
func SplitCategories(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
