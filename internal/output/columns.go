// Package output serializes lead records to CSV, XLSX and terminal tables,
// and reads CSV datasets back for merging.
package output

import (
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
)

// NotAvailable is written for every absent field.
const NotAvailable = "N/A"

const (
	DateLayout      = time.DateOnly
	TimestampLayout = time.DateTime
)

// Column names of the lead dataset, in file order.
const (
	ColLeadType    = "lead_type"
	ColName        = "company_name"
	ColDescription = "description"
	ColEmail       = "email"
	ColPhone       = "phone"
	ColWebsite     = "website"
	ColInstagram   = "instagram"
	ColFacebook    = "facebook"
	ColCity        = "city"
	ColCountry     = "country"
	ColRegion      = "region"
	ColCategories  = "categories"
	ColStartDate   = "start_date"
	ColEndDate     = "end_date"
	ColSource      = "source"
	ColSourceURL   = "source_url"
	ColScrapedDate = "scraped_date"
	ColMergedAt    = "merged_at"
)

// Header is the column order of written datasets.
var Header = []string{
	ColLeadType, ColName, ColDescription, ColEmail, ColPhone, ColWebsite, ColInstagram,
	ColFacebook, ColCity, ColCountry, ColRegion, ColCategories, ColStartDate, ColEndDate,
	ColSource, ColSourceURL, ColScrapedDate, ColMergedAt,
}

// headerAliases maps column names used by older datasets.
var headerAliases = map[string]string{
	"name":         ColName,
	"brand_name":   ColName,
	"company":      ColName,
	"type":         ColLeadType,
	"primary_city": ColCity,
	"scraped_at":   ColScrapedDate,
	"start":        ColStartDate,
	"end":          ColEndDate,
}

// Row renders a record in Header order. A zero mergedAt leaves merged_at
// as N/A.
func Row(r *lead.Record, mergedAt time.Time) []string {
	return []string{
		orNA(r.Kinds.String()),
		orNA(r.Name),
		r.Description.Or(NotAvailable),
		r.Contact.Email.Or(NotAvailable),
		r.Contact.Phone.Or(NotAvailable),
		r.Contact.Website.Or(NotAvailable),
		r.Contact.Instagram.Or(NotAvailable),
		r.Contact.Facebook.Or(NotAvailable),
		r.Location.City.Or(NotAvailable),
		r.Location.Country.Or(NotAvailable),
		regionCell(r.Location.Region),
		r.Categories.Or(NotAvailable),
		timeCell(r.Temporal.Start, DateLayout),
		timeCell(r.Temporal.End, DateLayout),
		orNA(r.SourceLabel()),
		r.SourceURL.Or(NotAvailable),
		timeCell(r.ScrapedAt, TimestampLayout),
		timeCell(mergedAt, TimestampLayout),
	}
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func regionCell(r lead.Region) string {
	if r == lead.RegionUnknown {
		return NotAvailable
	}
	return r.String()
}

func timeCell(t time.Time, layout string) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Format(layout)
}
