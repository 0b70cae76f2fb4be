package lead

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind classifies the real-world entity a lead describes.
type Kind int

const (
	Brand Kind = iota + 1
	Showroom
	DesignerShowroom
	PressOffice
	Tradeshow
	Exhibitor
	FashionWeekEvent
)

// KindSeparator joins the labels of a record classified more than once.
const KindSeparator = " / "

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("unknown entity kind")

var kindLabels = map[Kind]string{
	Brand:            "Brand",
	Showroom:         "Multi-Label Showroom",
	DesignerShowroom: "Designer Showroom",
	PressOffice:      "Press Office",
	Tradeshow:        "Tradeshow",
	Exhibitor:        "Exhibitor",
	FashionWeekEvent: "Fashion Week Event",
}

var kindAliases = map[string]Kind{
	"brand":                Brand,
	"brands":               Brand,
	"showroom":             Showroom,
	"showrooms":            Showroom,
	"multi-label showroom": Showroom,
	"multi label showroom": Showroom,
	"designer showroom":    DesignerShowroom,
	"designer-showroom":    DesignerShowroom,
	"press office":         PressOffice,
	"press-office":         PressOffice,
	"press":                PressOffice,
	"tradeshow":            Tradeshow,
	"tradeshows":           Tradeshow,
	"trade show":           Tradeshow,
	"exhibitor":            Exhibitor,
	"exhibitors":           Exhibitor,
	"fashion week event":   FashionWeekEvent,
	"fashion-week":         FashionWeekEvent,
	"fashion week":         FashionWeekEvent,
	"event":                FashionWeekEvent,
}

func (k Kind) String() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HasSchedule reports whether records of this kind carry a date range.
func (k Kind) HasSchedule() bool {
	return k == Showroom || k == DesignerShowroom || k == Tradeshow || k == FashionWeekEvent
}

// ParseKind maps a label or CLI alias to a Kind.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds is an ordered set of distinct kinds.
type Kinds []Kind

// ParseKinds splits a joined label such as "Brand / Exhibitor".
// Unrecognised parts are returned as an error alongside the parsed ones.
func ParseKinds(s string) (Kinds, error) {
	var (
		out  Kinds
		errs []error
	)
	for part := range strings.SplitSeq(s, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = out.Add(k)
	}
	return out, errors.Join(errs...)
}

// Add appends k when not already present.
func (ks Kinds) Add(k Kind) Kinds {
	if slices.Contains(ks, k) {
		return ks
	}
	return append(ks, k)
}

// Union adds every kind of other, keeping first-seen order.
func (ks Kinds) Union(other Kinds) Kinds {
	for _, k := range other {
		ks = ks.Add(k)
	}
	return ks
}

// Equal reports whether both sets hold the same kinds, ignoring order.
func (ks Kinds) Equal(other Kinds) bool {
	if len(ks) != len(other) {
		return false
	}
	for _, k := range other {
		if !slices.Contains(ks, k) {
			return false
		}
	}
	return true
}

func (ks Kinds) String() string {
	labels := make([]string, len(ks))
	for i, k := range ks {
		labels[i] = k.String()
	}
	return strings.Join(labels, KindSeparator)
}
