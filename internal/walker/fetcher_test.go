package walker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/metrics"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/retry"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/visited"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListingServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var flakyHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/showrooms", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(listingHTML))
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, _ *http.Request) {
		if flakyHits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<ul><li>Omega <a href="/o">Mini Website</a></li></ul>`))
	})
	mux.HandleFunc("/site", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(siteHTML))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &flakyHits
}

func TestCollyFetcherFetch(t *testing.T) {
	t.Parallel()

	srv, _ := newListingServer(t)
	f, err := walker.NewCollyFetcher(walker.FetchConfig{})
	require.NoError(t, err)

	blocks, err := f.Fetch(context.Background(), srv.URL+"/showrooms")
	require.NoError(t, err)
	require.Len(t, blocks, 5)
	assert.Equal(t, srv.URL+"/showrooms", blocks[0].SourceURL)

	_, err = f.Fetch(context.Background(), srv.URL+"/gone")
	var se *retry.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}

const siteHTML = `<html><head><script>var tracker = "x";</script></head><body>
<p>Atelier Nord knitwear</p>
<a href="#top">Top</a>
<a href="javascript:void(0)">Menu</a>
<a href="mailto:Studio@AtelierNord.fr?subject=Hi">Mail</a>
<a href="tel:+33123456789">Call</a>
<a href="https://partner.example.org/contact">Contact our partner</a>
<a href="/about-us#team">About us</a>
<a href="/contact">Contact</a>
</body></html>`

func TestCollyFetcherFetchContactPage(t *testing.T) {
	t.Parallel()

	srv, _ := newListingServer(t)
	f, err := walker.NewCollyFetcher(walker.FetchConfig{})
	require.NoError(t, err)

	page, err := f.FetchContactPage(context.Background(), srv.URL+"/site")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/site", page.URL)
	assert.Contains(t, page.Text, "Atelier Nord knitwear")
	assert.NotContains(t, page.Text, "tracker")
	assert.Equal(t, []string{
		"Studio@AtelierNord.fr",
		"+33123456789",
		"https://partner.example.org/contact",
		srv.URL + "/about-us#team",
		srv.URL + "/contact",
	}, page.Links)
	// Off-site links never become the contact page.
	assert.Equal(t, srv.URL+"/about-us", page.ContactURL)

	_, err = f.FetchContactPage(context.Background(), srv.URL+"/gone")
	var se *retry.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestWalkLive(t *testing.T) {
	t.Parallel()

	srv, flakyHits := newListingServer(t)
	f, err := walker.NewCollyFetcher(walker.FetchConfig{})
	require.NoError(t, err)

	store := visited.NewMemoryStore()
	m := metrics.NewMetrics()
	rc := retry.Config{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}
	w := walker.NewWalker(f, store, rc, m, nil)

	urls := []string{srv.URL + "/showrooms", srv.URL + "/flaky", srv.URL + "/gone", srv.URL + "/showrooms"}
	var pages []walker.Page
	stats, err := w.Walk(context.Background(), urls, func(p walker.Page) error {
		pages = append(pages, p)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, walker.Stats{Fetched: 2, Failed: 1, Skipped: 1, Blocks: 6}, stats)
	require.Len(t, pages, 2)
	assert.Len(t, pages[1].Blocks, 1)
	assert.Equal(t, int32(2), flakyHits.Load())
	assert.Equal(t, 2, store.Len())

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Pages[metrics.PageFetched])
	assert.Equal(t, int64(1), snap.Pages[metrics.PageFailed])
	assert.Equal(t, int64(1), snap.Pages[metrics.PageSkipped])
}
