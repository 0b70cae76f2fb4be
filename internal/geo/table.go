// Package geo maps cities to countries and countries to market regions
// from a static gazetteer. It is a table lookup, not a geocoder: a city
// name that exists in two countries resolves to the first entry listed.
package geo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CityEntry is one gazetteer row.
type CityEntry struct {
	Name    string `yaml:"name"`
	Country string `yaml:"country"`
}

// Table is the gazetteer: cities in priority order, spelling aliases
// (alias -> canonical city) and the member countries of each region label.
type Table struct {
	Cities  []CityEntry         `yaml:"cities"`
	Aliases map[string]string   `yaml:"aliases"`
	Regions map[string][]string `yaml:"regions"`
}

// LoadTable reads a YAML gazetteer. The file replaces the built-in table
// as a whole; it is not merged with it.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer %s: %w", path, err)
	}
	var t Table
	if err = yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse gazetteer %s: %w", path, err)
	}
	return &t, nil
}

// DefaultTable returns a fresh copy of the built-in gazetteer.
func DefaultTable() *Table {
	t := &Table{
		Cities:  make([]CityEntry, len(defaultCities)),
		Aliases: make(map[string]string, len(defaultAliases)),
		Regions: make(map[string][]string, len(defaultRegions)),
	}
	copy(t.Cities, defaultCities)
	for k, v := range defaultAliases {
		t.Aliases[k] = v
	}
	for k, v := range defaultRegions {
		t.Regions[k] = append([]string(nil), v...)
	}
	return t
}

var defaultRegions = map[string][]string{
	"Asia": {
		"Japan", "South Korea", "China", "Taiwan", "Singapore", "Thailand",
		"India", "Hong Kong", "Indonesia", "Malaysia", "Philippines", "Vietnam",
	},
	"Europe": {
		"United Kingdom", "UK", "France", "Italy", "Germany", "Spain", "Denmark",
		"Portugal", "Netherlands", "Belgium", "Switzerland", "Austria", "Sweden",
		"Norway", "Poland", "Czech Republic", "Ukraine", "Greece", "Ireland",
		"Finland", "Hungary", "Turkey",
	},
}

var defaultCities = []CityEntry{
	// Europe
	{Name: "Paris", Country: "France"},
	{Name: "Villepinte", Country: "France"},
	{Name: "Lyon", Country: "France"},
	{Name: "Milan", Country: "Italy"},
	{Name: "Florence", Country: "Italy"},
	{Name: "Rome", Country: "Italy"},
	{Name: "Rho", Country: "Italy"},
	{Name: "London", Country: "United Kingdom"},
	{Name: "Berlin", Country: "Germany"},
	{Name: "Munich", Country: "Germany"},
	{Name: "Frankfurt", Country: "Germany"},
	{Name: "Düsseldorf", Country: "Germany"},
	{Name: "Offenbach", Country: "Germany"},
	{Name: "Copenhagen", Country: "Denmark"},
	{Name: "Lisbon", Country: "Portugal"},
	{Name: "Porto", Country: "Portugal"},
	{Name: "Madrid", Country: "Spain"},
	{Name: "Barcelona", Country: "Spain"},
	{Name: "Amsterdam", Country: "Netherlands"},
	{Name: "Brussels", Country: "Belgium"},
	{Name: "Antwerp", Country: "Belgium"},
	{Name: "Zurich", Country: "Switzerland"},
	{Name: "Vienna", Country: "Austria"},
	{Name: "Stockholm", Country: "Sweden"},
	{Name: "Oslo", Country: "Norway"},
	{Name: "Warsaw", Country: "Poland"},
	{Name: "Prague", Country: "Czech Republic"},
	{Name: "Kyiv", Country: "Ukraine"},
	{Name: "Athens", Country: "Greece"},
	{Name: "Dublin", Country: "Ireland"},
	{Name: "Helsinki", Country: "Finland"},
	{Name: "Budapest", Country: "Hungary"},
	{Name: "Istanbul", Country: "Turkey"},
	{Name: "Moscow", Country: "Russia"},
	// Asia
	{Name: "Tokyo", Country: "Japan"},
	{Name: "Seoul", Country: "South Korea"},
	{Name: "Shanghai", Country: "China"},
	{Name: "Beijing", Country: "China"},
	{Name: "Guangzhou", Country: "China"},
	{Name: "Hong Kong", Country: "Hong Kong"},
	{Name: "Taipei", Country: "Taiwan"},
	{Name: "Singapore", Country: "Singapore"},
	{Name: "Bangkok", Country: "Thailand"},
	{Name: "Mumbai", Country: "India"},
	{Name: "New Delhi", Country: "India"},
	{Name: "Delhi", Country: "India"},
	{Name: "Jakarta", Country: "Indonesia"},
	{Name: "Kuala Lumpur", Country: "Malaysia"},
	{Name: "Manila", Country: "Philippines"},
	{Name: "Hanoi", Country: "Vietnam"},
	{Name: "Ho Chi Minh City", Country: "Vietnam"},
	// Middle East
	{Name: "Dubai", Country: "United Arab Emirates"},
	{Name: "Abu Dhabi", Country: "United Arab Emirates"},
	{Name: "Tel Aviv", Country: "Israel"},
	// North America
	{Name: "New York", Country: "USA"},
	{Name: "Los Angeles", Country: "USA"},
	{Name: "Las Vegas", Country: "USA"},
	{Name: "Miami", Country: "USA"},
	{Name: "Toronto", Country: "Canada"},
	{Name: "Vancouver", Country: "Canada"},
	{Name: "Mexico City", Country: "Mexico"},
	// Oceania
	{Name: "Sydney", Country: "Australia"},
	{Name: "Melbourne", Country: "Australia"},
}

var defaultAliases = map[string]string{
	"Milano":      "Milan",
	"Firenze":     "Florence",
	"Roma":        "Rome",
	"München":     "Munich",
	"Muenchen":    "Munich",
	"Duesseldorf": "Düsseldorf",
	"Kiev":        "Kyiv",
	"Lisboa":      "Lisbon",
	"Wien":        "Vienna",
	"København":   "Copenhagen",
	"Bruxelles":   "Brussels",
	"Praha":       "Prague",
	"Warszawa":    "Warsaw",
	"Hongkong":    "Hong Kong",
	"Ho Chi Minh": "Ho Chi Minh City",
	"Saigon":      "Ho Chi Minh City",
	"NYC":         "New York",
	"Bombay":      "Mumbai",
}
