// Package metrics collects the counters of one harvest or merge run. The
// same numbers feed the end-of-run summary table and, when configured, a
// Prometheus textfile for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every exported metric.
const Namespace = "leadharvest"

// Block outcomes besides the parser's rejection reasons.
const (
	OutcomeAccepted = "accepted"
	OutcomeFault    = "fault"
)

// Page statuses.
const (
	PageFetched = "fetched"
	PageFailed  = "failed"
	PageSkipped = "skipped"
)

// Summary is a point-in-time copy of the run counters.
type Summary struct {
	Blocks    map[string]int64
	Pages     map[string]int64
	Sources   map[string]int64
	Regions   map[string]int64
	Merged    int64
	Dropped   int64
	Conflicts int64
	Written   int64
	Duration  time.Duration
}

// Metrics is safe for concurrent use.
type Metrics struct {
	mu        sync.Mutex
	startTime time.Time
	blocks    map[string]int64
	pages     map[string]int64
	sources   map[string]int64
	regions   map[string]int64
	merged    int64
	dropped   int64
	conflicts int64
	written   int64

	registry        *prometheus.Registry
	blocksTotal     *prometheus.CounterVec
	pagesTotal      *prometheus.CounterVec
	mergedTotal     prometheus.Counter
	droppedTotal    prometheus.Counter
	conflictsTotal  prometheus.Counter
	recordsWritten  prometheus.Gauge
	durationSeconds prometheus.Gauge
	lastRun         prometheus.Gauge
}

// NewMetrics registers the collectors on a private registry so that
// repeated runs in one process never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		startTime: time.Now(),
		blocks:    make(map[string]int64),
		pages:     make(map[string]int64),
		sources:   make(map[string]int64),
		regions:   make(map[string]int64),
		registry:  reg,
		blocksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "blocks_total",
			Help:      "Listing blocks parsed, by outcome",
		}, []string{"outcome"}),
		pagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "pages_total",
			Help:      "Listing pages visited, by status",
		}, []string{"status"}),
		mergedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "records_merged_total",
			Help:      "Records folded into an existing record during deduplication",
		}),
		droppedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "records_dropped_total",
			Help:      "Records dropped before or during deduplication",
		}),
		conflictsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "merge_conflicts_total",
			Help:      "Merges of records that disagreed on entity kind",
		}),
		recordsWritten: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "records_written",
			Help:      "Records in the dataset written by the last run",
		}),
		durationSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
}

// GetStartTime returns when the run began.
func (m *Metrics) GetStartTime() time.Time {
	return m.startTime
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AddBlocks counts n blocks with the given outcome.
func (m *Metrics) AddBlocks(outcome string, n int) {
	if n <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks[outcome] += int64(n)
	m.blocksTotal.WithLabelValues(outcome).Add(float64(n))
}

// RecordPage counts one page visit.
func (m *Metrics) RecordPage(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[status]++
	m.pagesTotal.WithLabelValues(status).Inc()
}

// AddSource counts records loaded from or produced for an origin tag.
func (m *Metrics) AddSource(tag string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[tag] += int64(n)
}

// AddRegion counts records written for a region label.
func (m *Metrics) AddRegion(region string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions[region] += int64(n)
}

// RecordDedupe counts the outcome of one deduplication pass.
func (m *Metrics) RecordDedupe(merged, dropped, conflicts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.merged += int64(merged)
	m.dropped += int64(dropped)
	m.conflicts += int64(conflicts)
	m.mergedTotal.Add(float64(merged))
	m.droppedTotal.Add(float64(dropped))
	m.conflictsTotal.Add(float64(conflicts))
}

// AddDropped counts records discarded outside deduplication.
func (m *Metrics) AddDropped(n int) {
	m.RecordDedupe(0, n, 0)
}

// SetWritten records the size of the written dataset.
func (m *Metrics) SetWritten(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = int64(n)
	m.recordsWritten.Set(float64(n))
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summary{
		Blocks:    maps.Clone(m.blocks),
		Pages:     maps.Clone(m.pages),
		Sources:   maps.Clone(m.sources),
		Regions:   maps.Clone(m.regions),
		Merged:    m.merged,
		Dropped:   m.dropped,
		Conflicts: m.conflicts,
		Written:   m.written,
		Duration:  time.Since(m.startTime),
	}
}

// WriteTextfile stamps the run duration and writes all collectors to path
// in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	m.mu.Lock()
	m.durationSeconds.Set(time.Since(m.startTime).Seconds())
	m.lastRun.SetToCurrentTime()
	m.mu.Unlock()

	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
