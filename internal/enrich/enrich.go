// Package enrich fills missing contact fields of lead records from the
// leads' own websites.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/metrics"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/retry"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/urlnorm"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/walker"
)

// Field names reported in Stats.Filled.
const (
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldInstagram = "instagram"
	FieldFacebook  = "facebook"
)

// PhoneSeparator joins several harvested numbers in one cell.
const PhoneSeparator = ", "

// Stats counts what one Enrich call did.
type Stats struct {
	Records  int
	Complete int // nothing missing, no request made
	NoSite   int // missing fields but no website to visit
	Visited  int // pages fetched, contact pages included
	Failed   int // sites whose first page could not be fetched
	Enriched int // records with at least one field filled
	Filled   map[string]int
}

// Options configure an Enricher.
type Options struct {
	Phones extract.PhoneExtractor
	Retry  retry.Config
	// SkipContactPage stops after the homepage.
	SkipContactPage bool
}

// Enricher visits lead websites one after another.
type Enricher struct {
	pages   PageSource
	opts    Options
	metrics *metrics.Metrics
	log     logger.Interface
}

// New returns an Enricher. m and log may be nil.
func New(pages PageSource, opts Options, m *metrics.Metrics, log logger.Interface) *Enricher {
	if m == nil {
		m = metrics.NewMetrics()
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Enricher{pages: pages, opts: opts, metrics: m, log: log.WithComponent("enrich")}
}

// harvest is what one site yielded.
type harvest struct {
	emails    []string
	phones    []string
	instagram lead.Field
	facebook  lead.Field
}

// Enrich fills absent email, phone, Instagram and Facebook fields in place.
// Populated fields are never changed. A site that cannot be fetched is
// logged and skipped; only cancellation stops the run.
func (e *Enricher) Enrich(ctx context.Context, records []*lead.Record) (Stats, error) {
	stats := Stats{Records: len(records), Filled: make(map[string]int)}
	sites := make(map[string]*harvest)

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if !missingContact(r) {
			stats.Complete++
			continue
		}
		site, ok := r.Contact.Website.Get()
		if !ok {
			stats.NoSite++
			continue
		}
		site = urlnorm.EnsureScheme(site)

		h, seen := sites[site]
		if !seen {
			var err error
			h, err = e.harvestSite(ctx, site, r, &stats)
			if err != nil {
				if ctx.Err() != nil {
					return stats, ctx.Err()
				}
				stats.Failed++
				e.metrics.RecordPage(metrics.PageFailed)
				e.log.Warn("Could not fetch lead website", "name", r.Name, "url", site, "error", err)
			}
			sites[site] = h
		}
		if h != nil && e.fill(r, h, site, &stats) {
			stats.Enriched++
		}
	}

	e.log.Info("Enrichment finished",
		"records", stats.Records,
		"visited", stats.Visited,
		"failed", stats.Failed,
		"enriched", stats.Enriched,
	)
	return stats, nil
}

func (e *Enricher) harvestSite(ctx context.Context, site string, r *lead.Record, stats *Stats) (*harvest, error) {
	home, err := e.fetch(ctx, site)
	if err != nil {
		return nil, err
	}
	stats.Visited++
	h := &harvest{}
	e.collect(h, home)

	needMore := (!r.Contact.Email.IsSet() && len(h.emails) == 0) || (!r.Contact.Phone.IsSet() && len(h.phones) == 0)
	if e.opts.SkipContactPage || !needMore || home.ContactURL == "" || home.ContactURL == home.URL {
		return h, nil
	}
	contact, err := e.fetch(ctx, home.ContactURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.metrics.RecordPage(metrics.PageFailed)
		e.log.Debug("Contact page failed, keeping homepage results", "url", home.ContactURL, "error", err)
		return h, nil
	}
	stats.Visited++
	e.collect(h, contact)
	return h, nil
}

func (e *Enricher) fetch(ctx context.Context, pageURL string) (walker.ContactPage, error) {
	var page walker.ContactPage
	err := retry.Do(ctx, e.opts.Retry, func(attempt int) error {
		if attempt > 1 {
			e.log.Debug("Retrying lead website", "url", pageURL, "attempt", attempt)
		}
		var fetchErr error
		page, fetchErr = e.pages.FetchContactPage(ctx, pageURL)
		return fetchErr
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return walker.ContactPage{}, err
		}
		return walker.ContactPage{}, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	e.metrics.RecordPage(metrics.PageFetched)
	return page, nil
}

func (e *Enricher) collect(h *harvest, page walker.ContactPage) {
	// The separator keeps digits of neighbouring values from joining into one number.
	links := strings.Join(page.Links, " | ")
	all := page.Text + " | " + links

	for _, addr := range extract.Emails(all) {
		if !slices.Contains(h.emails, addr) {
			h.emails = append(h.emails, addr)
		}
	}
	for _, p := range e.opts.Phones.Phones(all) {
		if !slices.Contains(h.phones, p) {
			h.phones = append(h.phones, p)
		}
	}
	if !h.instagram.IsSet() {
		h.instagram = extract.Instagram(links)
	}
	if !h.facebook.IsSet() {
		h.facebook = extract.Facebook(links)
	}
}

// fill copies harvested values into absent fields and reports whether
// anything changed. An address on the site's own domain is preferred.
func (e *Enricher) fill(r *lead.Record, h *harvest, site string, stats *Stats) bool {
	changed := false
	set := func(f *lead.Field, v lead.Field, name string) {
		if f.IsSet() || !v.IsSet() {
			return
		}
		*f = v
		stats.Filled[name]++
		changed = true
	}

	set(&r.Contact.Email, pickEmail(h.emails, site), FieldEmail)
	set(&r.Contact.Phone, lead.Some(strings.Join(h.phones, PhoneSeparator)), FieldPhone)
	set(&r.Contact.Instagram, h.instagram, FieldInstagram)
	set(&r.Contact.Facebook, h.facebook, FieldFacebook)
	if changed {
		e.log.Debug("Lead enriched", "name", r.Name, "url", site)
	}
	return changed
}

func pickEmail(emails []string, site string) lead.Field {
	if len(emails) == 0 {
		return lead.None()
	}
	if domain, err := urlnorm.RegistrableDomain(site); err == nil {
		for _, addr := range emails {
			if extract.EmailDomain(addr) == domain {
				return lead.Some(addr)
			}
		}
	}
	return lead.Some(emails[0])
}

func missingContact(r *lead.Record) bool {
	c := r.Contact
	return !c.Email.IsSet() || !c.Phone.IsSet() || !c.Instagram.IsSet() || !c.Facebook.IsSet()
}
