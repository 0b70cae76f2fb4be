package parser_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/geo"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.August, 1, 10, 30, 0, 0, time.UTC)

const showroomText = "ACME Showroom * Mini Website Women's RTW Sales campaign from September 20 2025 " +
	"to September 24 2025 12 rue de Turenne, Paris info@acme-showroom.com www.acme-showroom.com " +
	"Tel: +33 1 42 36 00 00 instagram.com/acmeshowroom"

func newParser(t *testing.T, kind lead.Kind, targets ...string) *parser.Parser {
	t.Helper()
	resolver, err := geo.NewResolver(geo.DefaultTable(), targets)
	require.NoError(t, err)
	p, err := parser.New(parser.Config{
		Kind:   kind,
		Origin: "showrooms",
		Now:    func() time.Time { return fixedNow },
	}, resolver, logger.NewNoOp())
	require.NoError(t, err)
	return p
}

func TestParseShowroom(t *testing.T) {
	t.Parallel()

	p := newParser(t, lead.Showroom, "Asia", "Europe")
	res, err := p.Parse(lead.RawBlock{Text: showroomText, SourceURL: "https://www.modemonline.com/showrooms"})
	require.NoError(t, err)
	require.True(t, res.Accepted())
	assert.Equal(t, parser.ReasonNone, res.Rejection)

	rec := res.Record
	assert.Equal(t, "ACME Showroom", rec.Name)
	assert.Equal(t, lead.Kinds{lead.Showroom}, rec.Kinds)
	assert.Equal(t, "info@acme-showroom.com", rec.Contact.Email.String())
	assert.Equal(t, "+33 1 42 36 00 00", rec.Contact.Phone.String())
	assert.Equal(t, "https://www.acme-showroom.com", rec.Contact.Website.String())
	assert.Equal(t, "@acmeshowroom", rec.Contact.Instagram.String())
	assert.False(t, rec.Contact.Facebook.IsSet())
	assert.Equal(t, lead.Location{City: lead.Some("Paris"), Country: lead.Some("France"), Region: lead.RegionEurope}, rec.Location)
	assert.Equal(t, time.Date(2025, time.September, 20, 0, 0, 0, 0, time.UTC), rec.Temporal.Start)
	assert.Equal(t, time.Date(2025, time.September, 24, 0, 0, 0, 0, time.UTC), rec.Temporal.End)
	assert.Equal(t, "Women's RTW", rec.Categories.String())
	assert.Equal(t, []string{"showrooms"}, rec.Sources)
	assert.Equal(t, "https://www.modemonline.com/showrooms", rec.SourceURL.String())
	assert.Equal(t, fixedNow, rec.ScrapedAt)
	assert.NotContains(t, rec.Description.String(), "info@acme-showroom.com")
}

func TestParseBrandSkipsSchedule(t *testing.T) {
	t.Parallel()

	p := newParser(t, lead.Brand)
	res, err := p.Parse(lead.RawBlock{Text: showroomText})
	require.NoError(t, err)
	require.True(t, res.Accepted())
	assert.False(t, res.Record.Temporal.IsSet())
}

func TestParseFromHTML(t *testing.T) {
	t.Parallel()

	html := `<div><strong>Delta Atelier</strong> <a href="https://deltaatelier.it">Mini Website</a>
		Via Tortona 31, Milano <a href="mailto:info@deltaatelier.it">Email</a>
		<script>var city = "Tokyo";</script></div>`

	p := newParser(t, lead.Brand, "Europe")
	res, err := p.Parse(lead.RawBlock{HTML: html})
	require.NoError(t, err)
	require.True(t, res.Accepted())

	rec := res.Record
	assert.Equal(t, "Delta Atelier", rec.Name)
	assert.Equal(t, "https://deltaatelier.it", rec.Contact.Website.String())
	assert.Equal(t, "info@deltaatelier.it", rec.Contact.Email.String())
	assert.Equal(t, "Milan", rec.Location.City.String())
	assert.Equal(t, lead.RegionEurope, rec.Location.Region)
}

func TestParseRejections(t *testing.T) {
	t.Parallel()

	p := newParser(t, lead.Showroom, "Asia", "Europe")

	tests := []struct {
		name  string
		block lead.RawBlock
		want  parser.Reason
	}{
		{name: "empty", block: lead.RawBlock{}, want: parser.ReasonEmptyBlock},
		{name: "boilerplate only", block: lead.RawBlock{Text: " Read more  Back to top "}, want: parser.ReasonEmptyBlock},
		{name: "no name", block: lead.RawBlock{Text: "12345 67890"}, want: parser.ReasonNoName},
		{
			name:  "sales campaign header",
			block: lead.RawBlock{Text: "Sales campaign from September 03 2025 to September 10 2025"},
			want:  parser.ReasonNoName,
		},
		{name: "season code", block: lead.RawBlock{Text: "SS26 Mini Website"}, want: parser.ReasonInvalidName},
		{
			name:  "outside target regions",
			block: lead.RawBlock{Text: "Beta Studio * Mini Website 5th Avenue, New York"},
			want:  parser.ReasonRegionFiltered,
		},
		{
			name:  "no city resolves to unknown region",
			block: lead.RawBlock{Text: "Gamma Label * Mini Website knitwear"},
			want:  parser.ReasonRegionFiltered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := p.Parse(tt.block)
			require.NoError(t, err)
			assert.False(t, res.Accepted())
			assert.Nil(t, res.Record)
			assert.Equal(t, tt.want, res.Rejection)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	p := newParser(t, lead.Brand)
	_, err := p.Parse(lead.RawBlock{Text: "Acme \xff\xfe"})
	require.ErrorIs(t, err, parser.ErrMalformedBlock)
}

func TestNew(t *testing.T) {
	t.Parallel()

	resolver, err := geo.NewResolver(geo.DefaultTable(), nil)
	require.NoError(t, err)

	_, err = parser.New(parser.Config{}, resolver, nil)
	require.ErrorIs(t, err, parser.ErrKindRequired)

	_, err = parser.New(parser.Config{Kind: lead.Brand}, nil, nil)
	require.ErrorIs(t, err, parser.ErrResolverRequired)

	p, err := parser.New(parser.Config{Kind: lead.Brand, PhoneProfile: extract.ProfileUAE}, resolver, nil)
	require.NoError(t, err)
	res, err := p.Parse(lead.RawBlock{Text: "Sand Studio * Mini Website Dubai Design District 0501234567"})
	require.NoError(t, err)
	require.True(t, res.Accepted())
	assert.Equal(t, "+971 50 123 4567", res.Record.Contact.Phone.String())
	assert.Equal(t, lead.RegionOther, res.Record.Location.Region)
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	p := newParser(t, lead.Showroom, "Europe")
	blocks := []lead.RawBlock{
		{Text: showroomText},
		{Text: "12345 67890"},
		{Text: "Bad \xff"},
		{Text: "Omega House * Mini Website Corso Como 10, Milano"},
		{Text: "Beta Studio * Mini Website 5th Avenue, New York"},
	}

	batch, err := p.ParseAll(context.Background(), blocks, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, batch.Blocks)
	require.Len(t, batch.Records, 2)
	assert.Equal(t, "ACME Showroom", batch.Records[0].Name)
	assert.Equal(t, "Omega House", batch.Records[1].Name)
	assert.Equal(t, 1, batch.Rejected[parser.ReasonNoName])
	assert.Equal(t, 1, batch.Rejected[parser.ReasonRegionFiltered])
	assert.Equal(t, 2, batch.RejectedTotal())
	require.Len(t, batch.Faults, 1)
	require.ErrorIs(t, batch.Faults[0], parser.ErrMalformedBlock)
}

func TestParseAllCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newParser(t, lead.Brand)
	_, err := p.ParseAll(ctx, []lead.RawBlock{{Text: showroomText}}, 1)
	require.ErrorIs(t, err, context.Canceled)
}
