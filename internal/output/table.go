package output

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
)

// TableRenderer prints aligned tables for terminal reports.
type TableRenderer struct {
	out io.Writer
}

// NewTableRenderer renders to out.
func NewTableRenderer(out io.Writer) *TableRenderer {
	return &TableRenderer{out: out}
}

// Render prints a titled table. An empty title is omitted.
func (r *TableRenderer) Render(title string, header table.Row, rows []table.Row, footer table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	t.AppendHeader(header)
	t.AppendRows(rows)
	if footer != nil {
		t.AppendFooter(footer)
	}
	t.Render()
}

// RenderRecords prints the first limit records; limit <= 0 prints all.
func (r *TableRenderer) RenderRecords(records []*lead.Record, limit int) {
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}
	rows := make([]table.Row, 0, limit)
	for _, rec := range records[:limit] {
		rows = append(rows, table.Row{
			rec.Name,
			orNA(rec.Kinds.String()),
			rec.Location.City.Or(NotAvailable),
			rec.Location.Country.Or(NotAvailable),
			regionCell(rec.Location.Region),
			rec.Contact.Email.Or(NotAvailable),
			rec.Contact.Website.Or(NotAvailable),
			orNA(rec.SourceLabel()),
		})
	}
	var footer table.Row
	if limit < len(records) {
		footer = table.Row{"", "", "", "", "", "", "and more", len(records) - limit}
	}
	r.Render("", table.Row{"Name", "Type", "City", "Country", "Region", "Email", "Website", "Source"}, rows, footer)
}

// RenderCounts prints a two-column breakdown with a total footer.
func (r *TableRenderer) RenderCounts(title, label string, keys []string, counts map[string]int) {
	rows := make([]table.Row, 0, len(keys))
	total := 0
	for _, k := range keys {
		rows = append(rows, table.Row{k, counts[k]})
		total += counts[k]
	}
	r.Render(title, table.Row{label, "Records"}, rows, table.Row{"Total", total})
}
