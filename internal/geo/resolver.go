package geo

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
)

var (
	// ErrEmptyGazetteer means the table has no cities.
	ErrEmptyGazetteer = errors.New("gazetteer has no cities")
	// ErrEmptyRegionTable means no country belongs to any region.
	ErrEmptyRegionTable = errors.New("region table is empty")
	// ErrUnknownTargetRegion means a configured target is not a region label.
	ErrUnknownTargetRegion = errors.New("unknown target region")
	// ErrInvalidTable covers malformed rows and region labels.
	ErrInvalidTable = errors.New("invalid gazetteer")
)

// Resolver answers city -> country -> region questions and owns the
// target-region filter. It is read-only after construction.
type Resolver struct {
	cities    []CityEntry
	aliases   map[string]string
	byAlias   map[string]string    // alias key -> canonical name
	byCity    map[string]CityEntry // key -> first entry
	regionOf  map[string]lead.Region
	targets   map[lead.Region]bool
	targetSet []lead.Region
}

// NewResolver validates the table and the target labels. An empty target
// list accepts every region.
func NewResolver(t *Table, targets []string) (*Resolver, error) {
	if t == nil || len(t.Cities) == 0 {
		return nil, ErrEmptyGazetteer
	}
	r := &Resolver{
		aliases:  make(map[string]string, len(t.Aliases)),
		byAlias:  make(map[string]string, len(t.Aliases)),
		byCity:   make(map[string]CityEntry, len(t.Cities)),
		regionOf: make(map[string]lead.Region),
		targets:  make(map[lead.Region]bool, len(targets)),
	}

	for _, c := range t.Cities {
		name, country := textnorm.Normalize(c.Name), textnorm.Normalize(c.Country)
		if name == "" {
			return nil, fmt.Errorf("%w: city without name (country %q)", ErrInvalidTable, c.Country)
		}
		key := cityKey(name)
		if _, dup := r.byCity[key]; dup {
			continue
		}
		entry := CityEntry{Name: name, Country: country}
		r.byCity[key] = entry
		r.cities = append(r.cities, entry)
	}
	for alias, canonical := range t.Aliases {
		if _, ok := r.byCity[cityKey(canonical)]; !ok {
			return nil, fmt.Errorf("%w: alias %q points to unknown city %q", ErrInvalidTable, alias, canonical)
		}
		name := r.byCity[cityKey(canonical)].Name
		r.aliases[alias] = name
		r.byAlias[cityKey(alias)] = name
	}

	for label, countries := range t.Regions {
		region, err := lead.ParseRegion(label)
		if err != nil || region == lead.RegionUnknown {
			return nil, fmt.Errorf("%w: region label %q", ErrInvalidTable, label)
		}
		for _, c := range countries {
			if k := textnorm.Key(c); k != "" {
				r.regionOf[k] = region
			}
		}
	}
	if len(r.regionOf) == 0 {
		return nil, ErrEmptyRegionTable
	}

	for _, label := range targets {
		region, err := lead.ParseRegion(label)
		if err != nil || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTargetRegion, label)
		}
		if !r.targets[region] {
			r.targets[region] = true
			r.targetSet = append(r.targetSet, region)
		}
	}
	return r, nil
}

// Cities lists the canonical city names in table order.
func (r *Resolver) Cities() []string {
	out := make([]string, len(r.cities))
	for i, c := range r.cities {
		out[i] = c.Name
	}
	return out
}

// Entries lists the gazetteer rows in table order.
func (r *Resolver) Entries() []CityEntry {
	return slices.Clone(r.cities)
}

// Aliases returns a copy of alias -> canonical city.
func (r *Resolver) Aliases() map[string]string {
	return maps.Clone(r.aliases)
}

// Targets returns the configured target regions; empty means all.
func (r *Resolver) Targets() []lead.Region {
	return slices.Clone(r.targetSet)
}

// CanonicalCity folds aliases, case and accents onto the table's spelling.
// Unknown cities are returned normalized but otherwise unchanged.
func (r *Resolver) CanonicalCity(city string) (string, bool) {
	city = textnorm.Normalize(city)
	if city == "" {
		return "", false
	}
	key := cityKey(city)
	if e, ok := r.byCity[key]; ok {
		return e.Name, true
	}
	if canonical, ok := r.byAlias[key]; ok {
		return canonical, true
	}
	return city, false
}

// Country returns the country of a known city.
func (r *Resolver) Country(city string) lead.Field {
	canonical, ok := r.CanonicalCity(city)
	if !ok {
		return lead.None()
	}
	return lead.Some(r.byCity[cityKey(canonical)].Country)
}

// Region classifies a country. Blank is RegionUnknown; a country no region
// lists is RegionOther.
func (r *Resolver) Region(country string) lead.Region {
	k := textnorm.Key(country)
	if k == "" {
		return lead.RegionUnknown
	}
	if region, ok := r.regionOf[k]; ok {
		return region
	}
	return lead.RegionOther
}

// Resolve builds the location of a city mention.
func (r *Resolver) Resolve(city string) lead.Location {
	canonical, _ := r.CanonicalCity(city)
	country := r.Country(city)
	return lead.Location{
		City:    lead.Some(canonical),
		Country: country,
		Region:  r.Region(country.String()),
	}
}

// Backfill completes a location whose country or region is missing.
func (r *Resolver) Backfill(loc lead.Location) lead.Location {
	if !loc.Country.IsSet() {
		loc.Country = r.Country(loc.City.String())
	}
	if loc.Region == lead.RegionUnknown {
		loc.Region = r.Region(loc.Country.String())
	}
	return loc
}

// InTarget reports whether a region passes the target filter.
func (r *Resolver) InTarget(region lead.Region) bool {
	return len(r.targets) == 0 || r.targets[region]
}

// cityKey treats "hong-kong" and "Hong Kong" alike.
func cityKey(s string) string {
	return textnorm.Key(strings.ReplaceAll(s, "-", " "))
}
