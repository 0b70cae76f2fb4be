// Package merge builds the master lead table from the per-source datasets.
package merge

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/dedup"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/geo"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/metrics"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/output"
)

var (
	// ErrNoSources is returned when no source table is configured.
	ErrNoSources = errors.New("merge: no source tables configured")
	// ErrNoOutput is returned when no master CSV path is configured.
	ErrNoOutput = errors.New("merge: output path is required")
)

// SourceTable is one per-source dataset and the tag its records carry.
// Kind classifies rows that have no lead_type column. With the UAE phone
// profile the stored phones are re-validated on load.
type SourceTable struct {
	Tag          string
	Path         string
	Kind         lead.Kind
	PhoneProfile extract.Profile
}

// Options configure a run.
type Options struct {
	Sources    []SourceTable
	OutputPath string
	XLSXPath   string
	// Now stamps merged_at; time.Now when nil.
	Now func() time.Time
}

// SourceStats are the per-source load counts.
type SourceStats struct {
	Tag     string
	Loaded  int
	Skipped int
	Missing bool
}

// Summary describes a finished run.
type Summary struct {
	Sources       []SourceStats
	Input         int
	Invalid       int
	RegionDropped int
	Merged        int
	Dropped       int
	Conflicts     int
	Output        int
	ByRegion      map[string]int
	MergedAt      time.Time
	Records       []*lead.Record
}

// Orchestrator runs load, filter, dedupe, sort and write. It holds no
// state between runs.
type Orchestrator struct {
	opts     Options
	resolver *geo.Resolver
	engine   *dedup.Engine
	metrics  *metrics.Metrics
	log      logger.Interface
}

// NewOrchestrator validates the options.
func NewOrchestrator(opts Options, resolver *geo.Resolver, m *metrics.Metrics, log logger.Interface) (*Orchestrator, error) {
	if len(opts.Sources) == 0 {
		return nil, ErrNoSources
	}
	if strings.TrimSpace(opts.OutputPath) == "" {
		return nil, ErrNoOutput
	}
	if resolver == nil {
		return nil, errors.New("merge: geo resolver is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Orchestrator{
		opts:     opts,
		resolver: resolver,
		engine:   dedup.NewEngine(dedup.WithCityCanonicalizer(resolver), dedup.WithLogger(log)),
		metrics:  m,
		log:      log.WithComponent("merge"),
	}, nil
}

// Run produces the master table. A missing source file is skipped with a
// warning; any other read or write failure aborts the run.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{ByRegion: make(map[string]int)}

	var all []*lead.Record
	for _, src := range o.opts.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, stats, err := o.load(src)
		if err != nil {
			return nil, err
		}
		sum.Sources = append(sum.Sources, stats)
		all = append(all, records...)
	}
	sum.Input = len(all)

	kept := all[:0]
	for _, r := range all {
		switch {
		case r.Validate() != nil:
			sum.Invalid++
		case !o.resolver.InTarget(r.Location.Region):
			sum.RegionDropped++
		default:
			kept = append(kept, r)
		}
	}
	o.metrics.AddDropped(sum.Invalid + sum.RegionDropped)

	res := o.engine.Dedupe(kept)
	sum.Merged, sum.Dropped, sum.Conflicts = res.Merged, res.Dropped, len(res.Conflicts)
	o.metrics.RecordDedupe(res.Merged, res.Dropped, len(res.Conflicts))

	Sort(res.Records)
	sum.Records = res.Records
	sum.Output = len(res.Records)
	sum.MergedAt = o.opts.Now().UTC().Truncate(time.Second)
	for _, r := range res.Records {
		sum.ByRegion[regionLabel(r.Location.Region)]++
	}
	for label, n := range sum.ByRegion {
		o.metrics.AddRegion(label, n)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := output.WriteCSVFile(o.opts.OutputPath, res.Records, sum.MergedAt); err != nil {
		return nil, fmt.Errorf("write master csv: %w", err)
	}
	if o.opts.XLSXPath != "" {
		if err := output.WriteXLSX(o.opts.XLSXPath, res.Records, sum.MergedAt); err != nil {
			return nil, fmt.Errorf("write master xlsx: %w", err)
		}
	}
	o.metrics.SetWritten(sum.Output)

	o.log.Info("Master table written",
		"path", o.opts.OutputPath,
		"input", sum.Input,
		"output", sum.Output,
		"merged", sum.Merged,
		"conflicts", sum.Conflicts,
		"region_dropped", sum.RegionDropped,
	)
	return sum, nil
}

// load reads one source, tags its records and backfills geography.
func (o *Orchestrator) load(src SourceTable) ([]*lead.Record, SourceStats, error) {
	stats := SourceStats{Tag: src.Tag}
	res, err := output.ReadCSVFile(src.Path, output.ReadOptions{DefaultKind: src.Kind})
	if errors.Is(err, fs.ErrNotExist) {
		o.log.Warn("Source file not found, skipping", "source", src.Tag, "path", src.Path)
		stats.Missing = true
		return nil, stats, nil
	}
	if err != nil {
		return nil, stats, fmt.Errorf("load source %s: %w", src.Tag, err)
	}

	for _, skipped := range res.Skipped {
		o.log.Warn("Skipping unreadable row", "source", src.Tag, "line", skipped.Line, "error", skipped.Err)
	}
	for _, r := range res.Records {
		r.AddSource(src.Tag)
		if src.PhoneProfile == extract.ProfileUAE && r.Contact.Phone.IsSet() {
			r.Contact.Phone = extract.RevalidateUAE(r.Contact.Phone.String())
		}
		if city, ok := o.resolver.CanonicalCity(r.Location.City.String()); ok {
			r.Location.City = lead.Some(city)
		}
		r.Location = o.resolver.Backfill(r.Location)
	}
	stats.Loaded = len(res.Records)
	stats.Skipped = len(res.Skipped)
	o.metrics.AddSource(src.Tag, stats.Loaded)
	o.log.Debug("Source loaded", "source", src.Tag, "records", stats.Loaded, "skipped", stats.Skipped)
	return res.Records, stats, nil
}

// Sort orders records by region, country, city and name. Regions sort
// Asia, Europe, Other, then unknown.
func Sort(records []*lead.Record) {
	slices.SortStableFunc(records, func(a, b *lead.Record) int {
		return cmp.Or(
			cmp.Compare(regionRank(a.Location.Region), regionRank(b.Location.Region)),
			cmp.Compare(a.Location.Country.String(), b.Location.Country.String()),
			cmp.Compare(a.Location.City.String(), b.Location.City.String()),
			cmp.Compare(a.Name, b.Name),
		)
	})
}

func regionRank(r lead.Region) int {
	if r == lead.RegionUnknown {
		return int(lead.RegionOther) + 1
	}
	return int(r)
}

func regionLabel(r lead.Region) string {
	if r == lead.RegionUnknown {
		return output.NotAvailable
	}
	return r.String()
}
