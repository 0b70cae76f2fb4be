package enrich_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/enrich"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/metrics"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/retry"
	enrichmocks "github.com/jonesrussell/north-cloud/leadharvest/internal/testutils/mocks/enrich"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const homeHTML = `<html><body>
<h1>Atelier Nord</h1>
<p>Knitwear from Lille.</p>
<a href="https://www.instagram.com/ateliernord">Instagram</a>
<a href="/contact-us">Contact</a>
</body></html>`

const contactHTML = `<html><head><script>var x = "bot@tracker.io";</script></head><body>
<p>Write to <a href="mailto:studio@ateliernord.com?subject=Hello">our studio</a></p>
<p>Showroom line +33 1 23 45 67 89</p>
</body></html>`

var fastRetry = retry.Config{
	MaxAttempts: 2,
	Delay:       time.Millisecond,
	Sleep:       func(context.Context, time.Duration) error { return nil },
}

func newSiteServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(homeHTML))
	})
	mux.HandleFunc("/contact-us", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(contactHTML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestEnrichFromLiveSite(t *testing.T) {
	t.Parallel()

	srv, hits := newSiteServer(t)
	f, err := walker.NewCollyFetcher(walker.FetchConfig{})
	require.NoError(t, err)

	bare := &lead.Record{Name: "Atelier Nord", Contact: lead.Contact{
		Website:  lead.Some(srv.URL),
		Facebook: lead.Some("https://www.facebook.com/ateliernord.paris"),
	}}
	withEmail := &lead.Record{Name: "Atelier Nord Press", Contact: lead.Contact{
		Website: lead.Some(srv.URL),
		Email:   lead.Some("press@agency.fr"),
	}}
	noSite := &lead.Record{Name: "Maison Sans Site"}
	complete := &lead.Record{Name: "Complete Co", Contact: lead.Contact{
		Website:   lead.Some("https://complete.example.org"),
		Email:     lead.Some("hi@complete.fr"),
		Phone:     lead.Some("+33 1 00 00 00 00"),
		Instagram: lead.Some("@complete"),
		Facebook:  lead.Some("https://www.facebook.com/complete"),
	}}

	m := metrics.NewMetrics()
	e := enrich.New(f, enrich.Options{Phones: extract.NewPhoneExtractor(extract.ProfileGeneric), Retry: fastRetry}, m, nil)
	stats, err := e.Enrich(context.Background(), []*lead.Record{bare, withEmail, noSite, complete})
	require.NoError(t, err)

	assert.Equal(t, "studio@ateliernord.com", bare.Contact.Email.String())
	assert.Equal(t, "+33 1 23 45 67 89", bare.Contact.Phone.String())
	assert.Equal(t, "@ateliernord", bare.Contact.Instagram.String())
	assert.Equal(t, "https://www.facebook.com/ateliernord.paris", bare.Contact.Facebook.String())

	assert.Equal(t, "press@agency.fr", withEmail.Contact.Email.String())
	assert.Equal(t, "+33 1 23 45 67 89", withEmail.Contact.Phone.String())
	assert.False(t, withEmail.Contact.Facebook.IsSet())

	assert.False(t, noSite.Contact.Email.IsSet())
	assert.Equal(t, "hi@complete.fr", complete.Contact.Email.String())

	assert.Equal(t, 4, stats.Records)
	assert.Equal(t, 1, stats.Complete)
	assert.Equal(t, 1, stats.NoSite)
	assert.Equal(t, 2, stats.Visited)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 2, stats.Enriched)
	assert.Equal(t, map[string]int{
		enrich.FieldEmail:     1,
		enrich.FieldPhone:     2,
		enrich.FieldInstagram: 2,
	}, stats.Filled)

	// One visit per page even though two records share the site.
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, int64(2), m.Snapshot().Pages[metrics.PageFetched])
}

func TestEnrichPrefersSiteDomainEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "own domain wins", text: "PR: press@agency.com Studio: studio@ateliernord.com", want: "studio@ateliernord.com"},
		{name: "first otherwise", text: "PR: press@agency.com or sales@distrib.it", want: "press@agency.com"},
		{name: "blocked addresses skipped", text: "noreply@ateliernord.com logo@2x.png", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			pages := enrichmocks.NewMockPageSource(ctrl)
			pages.EXPECT().FetchContactPage(gomock.Any(), "https://www.ateliernord.com").
				Return(walker.ContactPage{URL: "https://www.ateliernord.com", Text: tt.text}, nil)

			r := &lead.Record{Name: "Atelier Nord", Contact: lead.Contact{
				Website: lead.Some("www.ateliernord.com"),
				Phone:   lead.Some("+33 1 23 45 67 89"),
			}}
			e := enrich.New(pages, enrich.Options{SkipContactPage: true, Retry: fastRetry}, nil, nil)
			_, err := e.Enrich(context.Background(), []*lead.Record{r})
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Contact.Email.String())
		})
	}
}

func TestEnrichContinuesPastFailedSite(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	pages := enrichmocks.NewMockPageSource(ctrl)
	pages.EXPECT().FetchContactPage(gomock.Any(), "https://gone.fr").
		Return(walker.ContactPage{}, &retry.StatusError{URL: "https://gone.fr", Code: http.StatusNotFound}).
		Times(1)
	pages.EXPECT().FetchContactPage(gomock.Any(), "https://ok.fr").
		Return(walker.ContactPage{URL: "https://ok.fr", Links: []string{"hello@ok.fr"}}, nil)

	gone1 := &lead.Record{Name: "Gone", Contact: lead.Contact{Website: lead.Some("https://gone.fr")}}
	gone2 := &lead.Record{Name: "Gone Again", Contact: lead.Contact{Website: lead.Some("https://gone.fr")}}
	ok := &lead.Record{Name: "Ok", Contact: lead.Contact{Website: lead.Some("https://ok.fr")}}

	m := metrics.NewMetrics()
	e := enrich.New(pages, enrich.Options{Retry: fastRetry}, m, nil)
	stats, err := e.Enrich(context.Background(), []*lead.Record{gone1, gone2, ok})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Visited)
	assert.Equal(t, 1, stats.Enriched)
	assert.Equal(t, "hello@ok.fr", ok.Contact.Email.String())
	assert.False(t, gone2.Contact.Email.IsSet())
	assert.Equal(t, int64(1), m.Snapshot().Pages[metrics.PageFailed])
}

func TestEnrichStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	pages := enrichmocks.NewMockPageSource(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	pages.EXPECT().FetchContactPage(gomock.Any(), "https://a.fr").DoAndReturn(
		func(context.Context, string) (walker.ContactPage, error) {
			cancel()
			return walker.ContactPage{}, context.Canceled
		})

	records := []*lead.Record{
		{Name: "A", Contact: lead.Contact{Website: lead.Some("https://a.fr")}},
		{Name: "B", Contact: lead.Contact{Website: lead.Some("https://b.fr")}},
	}
	e := enrich.New(pages, enrich.Options{Retry: fastRetry}, nil, nil)
	_, err := e.Enrich(ctx, records)
	require.ErrorIs(t, err, context.Canceled)
}
