package lead

import (
	"errors"
	"fmt"
	"strings"
)

// Region is the coarse market bucket used for target filtering.
type Region int

const (
	RegionUnknown Region = iota
	RegionAsia
	RegionEurope
	RegionOther
)

// ErrUnknownRegion is returned by ParseRegion.
var ErrUnknownRegion = errors.New("unknown region")

func (r Region) String() string {
	switch r {
	case RegionAsia:
		return "Asia"
	case RegionEurope:
		return "Europe"
	case RegionOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// ParseRegion accepts the labels produced by String, case-insensitively.
// Blank input is RegionUnknown.
func ParseRegion(s string) (Region, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown", "n/a":
		return RegionUnknown, nil
	case "asia":
		return RegionAsia, nil
	case "europe":
		return RegionEurope, nil
	case "other":
		return RegionOther, nil
	}
	return RegionUnknown, fmt.Errorf("%w: %q", ErrUnknownRegion, s)
}
