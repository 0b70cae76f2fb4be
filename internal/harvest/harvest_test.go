package harvest_test

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/dedup"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/geo"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/harvest"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/metrics"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/output"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarvest(t *testing.T, m *metrics.Metrics) *harvest.Harvest {
	t.Helper()
	resolver, err := geo.NewResolver(geo.DefaultTable(), []string{"Europe"})
	require.NoError(t, err)
	p, err := parser.New(parser.Config{
		Kind:   lead.Brand,
		Origin: "brands",
		Now:    func() time.Time { return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) },
	}, resolver, nil)
	require.NoError(t, err)
	return harvest.New("brands", p, dedup.NewEngine(dedup.WithCityCanonicalizer(resolver)), 2, m, nil)
}

func TestHarvestAcrossPages(t *testing.T) {
	t.Parallel()

	m := metrics.NewMetrics()
	h := newHarvest(t, m)
	ctx := context.Background()

	pages := [][]lead.RawBlock{
		{
			{Text: "Zeta Knit * Mini Website Milano www.zetaknit.it"},
			{Text: "Acme Atelier * Mini Website Paris hello@acme.fr"},
		},
		{
			{Text: "ACME ATELIER * Mini Website Paris hello@acme.fr +33 1 42 36 00 00"},
			{Text: "Kyoto Label * Mini Website Tokyo"},
			{Text: ""},
		},
	}
	var wg sync.WaitGroup
	for _, page := range pages {
		wg.Go(func() {
			assert.NoError(t, h.Add(ctx, page))
		})
	}
	wg.Wait()

	rep := h.Report()
	assert.Equal(t, 5, rep.Blocks)
	assert.Equal(t, 3, rep.Accepted)
	assert.Equal(t, 1, rep.Merged)
	assert.Equal(t, 1, rep.Rejected[parser.ReasonRegionFiltered])
	assert.Equal(t, 1, rep.Rejected[parser.ReasonEmptyBlock])
	require.Len(t, rep.Records, 2)
	// Pages finish in any order, so either spelling may survive.
	assert.True(t, strings.EqualFold("Acme Atelier", rep.Records[0].Name))
	assert.Equal(t, "+33 1 42 36 00 00", rep.Records[0].Contact.Phone.String())
	assert.Equal(t, "Zeta Knit", rep.Records[1].Name)

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.Blocks[metrics.OutcomeAccepted])
	assert.Equal(t, int64(1), snap.Blocks[string(parser.ReasonRegionFiltered)])
	assert.Equal(t, int64(2), snap.Sources["brands"])
}

func TestHarvestWrite(t *testing.T) {
	t.Parallel()

	h := newHarvest(t, nil)
	require.NoError(t, h.Add(context.Background(), []lead.RawBlock{
		{Text: "Acme Atelier * Mini Website Paris hello@acme.fr"},
	}))
	rep := h.Report()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "brands.csv")
	xlsxPath := filepath.Join(dir, "brands.xlsx")
	require.NoError(t, h.Write(rep, csvPath, xlsxPath))

	res, err := output.ReadCSVFile(csvPath, output.ReadOptions{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Acme Atelier", res.Records[0].Name)
	assert.Equal(t, []string{"brands"}, res.Records[0].Sources)
	assert.FileExists(t, xlsxPath)
}

func TestHarvestSeed(t *testing.T) {
	t.Parallel()

	h := newHarvest(t, nil)
	h.Seed([]*lead.Record{{
		Name:     "Acme Atelier",
		Kinds:    lead.Kinds{lead.Brand},
		Location: lead.Location{City: lead.Some("Paris"), Country: lead.Some("France"), Region: lead.RegionEurope},
		Sources:  []string{"brands"},
	}})
	require.NoError(t, h.Add(context.Background(), []lead.RawBlock{
		{Text: "Acme Atelier * Mini Website Paris hello@acme.fr"},
	}))

	rep := h.Report()
	assert.Equal(t, 1, rep.Blocks)
	require.Len(t, rep.Records, 1)
	assert.Equal(t, "hello@acme.fr", rep.Records[0].Contact.Email.String())
}
