// Package harvest accumulates the records of one source across pages and
// writes its per-source dataset.
package harvest

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/dedup"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/merge"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/metrics"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/output"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/parser"
)

// Report describes the dataset a harvest produced.
type Report struct {
	Origin    string
	Blocks    int
	Accepted  int
	Rejected  map[parser.Reason]int
	Faults    int
	Merged    int
	Conflicts int
	Records   []*lead.Record
}

// Harvest is safe for concurrent Add calls.
type Harvest struct {
	origin  string
	parser  *parser.Parser
	engine  *dedup.Engine
	workers int
	metrics *metrics.Metrics
	log     logger.Interface

	mu       sync.Mutex
	records  []*lead.Record
	rejected map[parser.Reason]int
	blocks   int
	accepted int
	faults   int
}

// New builds a harvest for one origin tag.
func New(
	origin string,
	p *parser.Parser,
	engine *dedup.Engine,
	workers int,
	m *metrics.Metrics,
	log logger.Interface,
) *Harvest {
	if m == nil {
		m = metrics.NewMetrics()
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Harvest{
		origin:   origin,
		parser:   p,
		engine:   engine,
		workers:  workers,
		metrics:  m,
		log:      log.WithComponent("harvest"),
		rejected: make(map[parser.Reason]int),
	}
}

// Add parses one page worth of blocks.
func (h *Harvest) Add(ctx context.Context, blocks []lead.RawBlock) error {
	batch, err := h.parser.ParseAll(ctx, blocks, h.workers)
	if err != nil {
		return err
	}
	for _, f := range batch.Faults {
		h.log.Warn("Malformed block", "origin", h.origin, "error", f)
	}

	h.metrics.AddBlocks(metrics.OutcomeAccepted, len(batch.Records))
	h.metrics.AddBlocks(metrics.OutcomeFault, len(batch.Faults))
	for reason, n := range batch.Rejected {
		h.metrics.AddBlocks(string(reason), n)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, batch.Records...)
	h.blocks += batch.Blocks
	h.accepted += len(batch.Records)
	h.faults += len(batch.Faults)
	for reason, n := range batch.Rejected {
		h.rejected[reason] += n
	}
	return nil
}

// Seed adds records from an earlier run, typically the existing dataset
// of an incremental crawl. They take part in dedupe but are not counted
// as parsed blocks.
func (h *Harvest) Seed(records []*lead.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, records...)
}

// Report dedupes and sorts what was collected so far.
func (h *Harvest) Report() *Report {
	h.mu.Lock()
	records := h.records
	rep := &Report{
		Origin:   h.origin,
		Blocks:   h.blocks,
		Accepted: h.accepted,
		Rejected: maps.Clone(h.rejected),
		Faults:   h.faults,
	}
	h.mu.Unlock()

	res := h.engine.Dedupe(records)
	merge.Sort(res.Records)
	rep.Records = res.Records
	rep.Merged = res.Merged
	rep.Conflicts = len(res.Conflicts)
	h.metrics.RecordDedupe(res.Merged, res.Dropped, len(res.Conflicts))
	h.metrics.AddSource(h.origin, len(res.Records))
	return rep
}

// Write stores the report as the per-source CSV (merged_at left empty) and
// optionally as XLSX.
func (h *Harvest) Write(rep *Report, csvPath, xlsxPath string) error {
	if err := output.WriteCSVFile(csvPath, rep.Records, time.Time{}); err != nil {
		return fmt.Errorf("write %s dataset: %w", rep.Origin, err)
	}
	if xlsxPath != "" {
		if err := output.WriteXLSX(xlsxPath, rep.Records, time.Time{}); err != nil {
			return fmt.Errorf("write %s workbook: %w", rep.Origin, err)
		}
	}
	h.metrics.SetWritten(len(rep.Records))
	h.log.Info("Dataset written",
		"origin", rep.Origin,
		"path", csvPath,
		"records", len(rep.Records),
		"blocks", rep.Blocks,
		"merged", rep.Merged,
	)
	return nil
}
