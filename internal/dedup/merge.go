package dedup

import (
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
)

// Merge folds src into dst and reports whether their kinds disagreed.
// A populated field of dst is only ever replaced by a longer value.
func Merge(dst, src *lead.Record) (kindConflict bool) {
	if strings.TrimSpace(dst.Name) == "" {
		dst.Name = src.Name
	}

	if len(dst.Kinds) > 0 && len(src.Kinds) > 0 && !dst.Kinds.Equal(src.Kinds) {
		kindConflict = true
	}
	dst.Kinds = dst.Kinds.Union(src.Kinds)

	dst.Contact.Email = longer(dst.Contact.Email, src.Contact.Email)
	dst.Contact.Phone = longer(dst.Contact.Phone, src.Contact.Phone)
	dst.Contact.Website = longer(dst.Contact.Website, src.Contact.Website)
	dst.Contact.Instagram = longer(dst.Contact.Instagram, src.Contact.Instagram)
	dst.Contact.Facebook = longer(dst.Contact.Facebook, src.Contact.Facebook)
	dst.Description = longer(dst.Description, src.Description)
	dst.Categories = unionCategories(dst.Categories, src.Categories)

	dst.Location.City = known(dst.Location.City, src.Location.City)
	dst.Location.Country = known(dst.Location.Country, src.Location.Country)
	if dst.Location.Region == lead.RegionUnknown {
		dst.Location.Region = src.Location.Region
	}
	if !dst.Temporal.IsSet() && src.Temporal.IsSet() {
		dst.Temporal = src.Temporal
	}

	for _, s := range src.Sources {
		dst.AddSource(s)
	}
	dst.SourceURL = known(dst.SourceURL, src.SourceURL)
	if src.ScrapedAt.After(dst.ScrapedAt) {
		dst.ScrapedAt = src.ScrapedAt
	}
	return kindConflict
}

func longer(a, b lead.Field) lead.Field {
	if b.Len() > a.Len() {
		return b
	}
	return a
}

func known(a, b lead.Field) lead.Field {
	if a.IsSet() {
		return a
	}
	return b
}

func unionCategories(a, b lead.Field) lead.Field {
	tags := extract.SplitCategories(a.String())
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		seen[strings.ToLower(t)] = true
	}
	for _, t := range extract.SplitCategories(b.String()) {
		if !seen[strings.ToLower(t)] {
			seen[strings.ToLower(t)] = true
			tags = append(tags, t)
		}
	}
	return lead.Some(strings.Join(tags, extract.CategorySeparator))
}
