// Package lead defines the normalized lead record and its building blocks.
package lead

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxNameLength bounds entity names in runes.
	MaxNameLength = 120
	// MaxDescriptionLength bounds descriptions in runes.
	MaxDescriptionLength = 500
	// SourceSeparator joins origin tags of merged records.
	SourceSeparator = " + "
)

// Record validation errors.
var (
	ErrEmptyName       = errors.New("entity name is empty")
	ErrNameTooLong     = errors.New("entity name too long")
	ErrPartialSchedule = errors.New("start and end date must both be set or both be absent")
	ErrScheduleOrder   = errors.New("start date after end date")
)

// RawBlock is one span of scraped text believed to describe a single entity.
type RawBlock struct {
	Text      string
	HTML      string
	SourceURL string
}

// Contact holds the outreach channels of a lead.
type Contact struct {
	Email     Field
	Phone     Field
	Website   Field
	Instagram Field
	Facebook  Field
}

// Location is where a lead is based.
type Location struct {
	City    Field
	Country Field
	Region  Region
}

// Temporal is a sales campaign or event window. Zero times mean absent.
type Temporal struct {
	Start time.Time
	End   time.Time
}

// IsSet reports whether the window is populated.
func (t Temporal) IsSet() bool {
	return !t.Start.IsZero() && !t.End.IsZero()
}

// Record is the normalized output unit.
type Record struct {
	Name        string
	Kinds       Kinds
	Contact     Contact
	Location    Location
	Temporal    Temporal
	Categories  Field
	Description Field
	Sources     []string
	SourceURL   Field
	ScrapedAt   time.Time
}

// Validate checks the record invariants that do not depend on configuration.
func (r *Record) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: %d runes", ErrNameTooLong, utf8.RuneCountInString(name))
	}
	if r.Temporal.Start.IsZero() != r.Temporal.End.IsZero() {
		return ErrPartialSchedule
	}
	if r.Temporal.IsSet() && r.Temporal.Start.After(r.Temporal.End) {
		return ErrScheduleOrder
	}
	return nil
}

// AddSource records an origin tag once.
func (r *Record) AddSource(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(r.Sources, tag) {
		return
	}
	r.Sources = append(r.Sources, tag)
}

// SourceLabel joins the origin tags.
func (r *Record) SourceLabel() string {
	return strings.Join(r.Sources, SourceSeparator)
}

// Clone returns a copy that shares no slices with r.
func (r *Record) Clone() *Record {
	c := *r
	c.Kinds = slices.Clone(r.Kinds)
	c.Sources = slices.Clone(r.Sources)
	return &c
}
