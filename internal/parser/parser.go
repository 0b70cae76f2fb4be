// Package parser turns one raw listing block into one lead record, or a
// rejection saying why the block is not a lead.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/geo"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
)

// Reason says why a block produced no record. The zero value means accepted.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonEmptyBlock     Reason = "empty-block"
	ReasonNoName         Reason = "no-name"
	ReasonInvalidName    Reason = "invalid-name"
	ReasonRegionFiltered Reason = "region-filtered"
	ReasonInvalidRecord  Reason = "invalid-record"
)

// Reasons lists every rejection reason in reporting order.
var Reasons = []Reason{
	ReasonEmptyBlock, ReasonNoName, ReasonInvalidName, ReasonRegionFiltered, ReasonInvalidRecord,
}

var (
	// ErrMalformedBlock is a fault in the input itself, as opposed to a
	// block that simply holds no lead.
	ErrMalformedBlock = errors.New("malformed block")
	// ErrKindRequired is returned by New when no entity kind is configured.
	ErrKindRequired = errors.New("parser: entity kind is required")
	// ErrResolverRequired is returned by New without a geo resolver.
	ErrResolverRequired = errors.New("parser: geo resolver is required")
)

// Result is the outcome of parsing one block: exactly one of Record and
// Rejection is set.
type Result struct {
	Record    *lead.Record
	Rejection Reason
}

// Accepted reports whether the block produced a record.
func (r Result) Accepted() bool {
	return r.Record != nil
}

// Config selects what the parser emits and how contacts are recognised.
type Config struct {
	Kind             lead.Kind
	Origin           string
	PhoneProfile     extract.Profile
	IgnoredHosts     []string
	Boilerplate      []string
	DescriptionLimit int
	// Now stamps ScrapedAt; time.Now when nil.
	Now func() time.Time
}

// Parser is safe for concurrent use.
type Parser struct {
	cfg      Config
	resolver *geo.Resolver
	cities   *extract.CityMatcher
	phones   extract.PhoneExtractor
	websites extract.WebsiteExtractor
	log      logger.Interface
}

// New builds a parser around a resolver whose gazetteer also feeds the
// city matcher.
func New(cfg Config, resolver *geo.Resolver, log logger.Interface) (*Parser, error) {
	if cfg.Kind == 0 {
		return nil, ErrKindRequired
	}
	if resolver == nil {
		return nil, ErrResolverRequired
	}
	if cfg.PhoneProfile == "" {
		cfg.PhoneProfile = extract.ProfileGeneric
	}
	if cfg.IgnoredHosts == nil {
		cfg.IgnoredHosts = extract.DefaultIgnoredHosts
	}
	if cfg.Boilerplate == nil {
		cfg.Boilerplate = textnorm.DefaultBoilerplate
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Parser{
		cfg:      cfg,
		resolver: resolver,
		cities:   extract.NewCityMatcher(resolver.Cities(), resolver.Aliases()),
		phones:   extract.NewPhoneExtractor(cfg.PhoneProfile),
		websites: extract.WebsiteExtractor{IgnoredHosts: cfg.IgnoredHosts},
		log:      log.WithComponent("parser"),
	}, nil
}

// Parse runs the extractors over one block. A rejection is a normal
// outcome and returns a nil error; only malformed input is an error.
func (p *Parser) Parse(block lead.RawBlock) (Result, error) {
	if !utf8.ValidString(block.Text) || !utf8.ValidString(block.HTML) {
		return Result{}, fmt.Errorf("%w: invalid UTF-8 (source %s)", ErrMalformedBlock, block.SourceURL)
	}

	text, links, err := blockText(block)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedBlock, err)
	}
	text = textnorm.StripBoilerplate(textnorm.Normalize(text), p.cfg.Boilerplate)
	if text == "" {
		return p.reject(ReasonEmptyBlock, block, ""), nil
	}

	name, ok := extract.MatchName(text)
	if !ok {
		if extract.RawName(text) != "" {
			return p.reject(ReasonInvalidName, block, extract.RawName(text)), nil
		}
		return p.reject(ReasonNoName, block, ""), nil
	}

	rec := p.assemble(name.Value, text, strings.TrimSpace(text+" "+links), block)
	if !p.resolver.InTarget(rec.Location.Region) {
		p.log.Debug("Block outside target regions",
			"name", rec.Name,
			"country", rec.Location.Country.String(),
			"region", rec.Location.Region.String(),
		)
		return Result{Rejection: ReasonRegionFiltered}, nil
	}
	if err = rec.Validate(); err != nil {
		p.log.Debug("Assembled record failed validation", "name", rec.Name, "error", err)
		return Result{Rejection: ReasonInvalidRecord}, nil
	}
	return Result{Record: rec}, nil
}

// assemble fills every field, leaving what was not found explicitly absent.
func (p *Parser) assemble(name, text, contactText string, block lead.RawBlock) *lead.Record {
	rec := &lead.Record{
		Name:  name,
		Kinds: lead.Kinds{p.cfg.Kind},
		Contact: lead.Contact{
			Email:     extract.Email(contactText),
			Phone:     p.phones.Phone(contactText),
			Website:   p.websites.Website(contactText),
			Instagram: extract.Instagram(contactText),
			Facebook:  extract.Facebook(contactText),
		},
		Categories:  extract.Categories(text),
		Description: extract.Description(text, name, p.cfg.DescriptionLimit),
		SourceURL:   lead.Some(block.SourceURL),
		ScrapedAt:   p.cfg.Now().UTC(),
	}
	rec.AddSource(p.cfg.Origin)

	if city := p.cities.City(text); city.IsSet() {
		rec.Location = p.resolver.Resolve(city.String())
	}
	if p.cfg.Kind.HasSchedule() {
		if start, end, ok := extract.DateRange(text); ok {
			rec.Temporal = lead.Temporal{Start: start, End: end}
		}
	}
	return rec
}

func (p *Parser) reject(reason Reason, block lead.RawBlock, candidate string) Result {
	p.log.Debug("Block rejected",
		"reason", string(reason),
		"source_url", block.SourceURL,
		"candidate", candidate,
	)
	return Result{Rejection: reason}
}
