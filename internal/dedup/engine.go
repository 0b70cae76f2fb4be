package dedup

import (
	"slices"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
)

// CityCanonicalizer folds city aliases ("Milano" -> "Milan") before keying.
type CityCanonicalizer interface {
	CanonicalCity(city string) (string, bool)
}

// Conflict records two records merged despite different kinds.
type Conflict struct {
	Key      Key
	Existing lead.Kinds
	Incoming lead.Kinds
}

// Result is the outcome of one Dedupe call.
type Result struct {
	Records   []*lead.Record
	Merged    int
	Dropped   int
	Conflicts []Conflict
}

// Engine deduplicates record sets. It keeps no state between calls.
type Engine struct {
	cities CityCanonicalizer
	log    logger.Interface
}

// Option configures an Engine.
type Option func(*Engine)

// WithCityCanonicalizer folds city spellings through c.
func WithCityCanonicalizer(c CityCanonicalizer) Option {
	return func(e *Engine) { e.cities = c }
}

// WithLogger sets the logger used for conflict reports.
func WithLogger(log logger.Interface) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine returns an engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: logger.NewNoOp()}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("dedup")
	return e
}

type entry struct {
	key Key
	rec *lead.Record
}

type pending struct {
	key Key
	rec *lead.Record
}

// Dedupe merges records that share a key. Inputs are not modified.
// Records whose key is entirely empty are dropped.
//
// Records with a contact are grouped on the full key first. A record
// without a contact then joins the contact group at its name and city
// when there is exactly one; with none it joins the other contact-less
// records there, and with several it stays a row of its own. Which
// entity absorbs a contact-less record therefore never depends on input
// order.
func (e *Engine) Dedupe(records []*lead.Record) Result {
	var (
		res       Result
		entries   []*entry
		byKey     = make(map[Key]*entry)
		byPlace   = make(map[placeKey][]*entry)
		bare      = make(map[placeKey]*entry)
		noContact []pending
	)

	for _, in := range records {
		if in == nil {
			res.Dropped++
			continue
		}
		key := e.keyOf(in)
		switch {
		case key.Empty():
			res.Dropped++
		case key.Contact == "":
			noContact = append(noContact, pending{key: key, rec: in})
		default:
			if target, ok := byKey[key]; ok {
				e.fold(&res, target, in)
				continue
			}
			ent := &entry{key: key, rec: in.Clone()}
			entries = append(entries, ent)
			byKey[key] = ent
			byPlace[key.place()] = append(byPlace[key.place()], ent)
		}
	}

	for _, p := range noContact {
		place := p.key.place()
		switch groups := byPlace[place]; len(groups) {
		case 1:
			e.fold(&res, groups[0], p.rec)
		case 0:
			if target, ok := bare[place]; ok {
				e.fold(&res, target, p.rec)
				continue
			}
			ent := &entry{key: p.key, rec: p.rec.Clone()}
			entries = append(entries, ent)
			bare[place] = ent
		default:
			e.log.Debug("Contact-less record matches several entities, kept apart",
				"name", p.rec.Name,
				"candidates", len(groups),
			)
			entries = append(entries, &entry{key: p.key, rec: p.rec.Clone()})
		}
	}

	res.Records = make([]*lead.Record, len(entries))
	for i, ent := range entries {
		res.Records[i] = ent.rec
	}
	return res
}

func (e *Engine) fold(res *Result, target *entry, in *lead.Record) {
	existing := slices.Clone(target.rec.Kinds)
	if Merge(target.rec, in) {
		c := Conflict{Key: target.key, Existing: existing, Incoming: slices.Clone(in.Kinds)}
		res.Conflicts = append(res.Conflicts, c)
		e.log.Debug("Merged records with different kinds",
			"name", target.rec.Name,
			"existing", c.Existing.String(),
			"incoming", c.Incoming.String(),
		)
	}
	res.Merged++
}

func (e *Engine) keyOf(r *lead.Record) Key {
	key := KeyOf(r)
	if e.cities != nil && key.City != "" {
		if canonical, ok := e.cities.CanonicalCity(r.Location.City.String()); ok {
			key.City = textnorm.Key(canonical)
		}
	}
	return key
}
