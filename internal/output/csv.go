package output

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
)

// utf8BOM makes spreadsheet applications detect UTF-8.
const utf8BOM = "\ufeff"

// ErrMissingNameColumn is returned for a CSV without any name column.
var ErrMissingNameColumn = errors.New("csv has no company_name column")

// WriteCSV writes the header and one row per record, prefixed with a BOM.
func WriteCSV(w io.Writer, records []*lead.Record, mergedAt time.Time) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(Row(r, mergedAt)); err != nil {
			return fmt.Errorf("write record %q: %w", r.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes records to path, creating parent directories.
func WriteCSVFile(path string, records []*lead.Record, mergedAt time.Time) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	bw := bufio.NewWriter(f)
	if err = WriteCSV(bw, records, mergedAt); err != nil {
		return err
	}
	return bw.Flush()
}

// RowError is a row that could not be turned into a record.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ReadOptions control how rows without a lead_type are classified.
type ReadOptions struct {
	DefaultKind lead.Kind
}

// ReadResult holds the parsed records and the rows that were skipped.
type ReadResult struct {
	Records []*lead.Record
	Skipped []RowError
}

// ReadCSV reads a dataset written by WriteCSV or by older exports. Columns
// are found by header name; unknown columns are ignored and "N/A" cells
// are absent.
func ReadCSV(r io.Reader, opts ReadOptions) (*ReadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)))
		if canonical, ok := headerAliases[name]; ok {
			name = canonical
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	if _, ok := cols[ColName]; !ok {
		return nil, ErrMissingNameColumn
	}

	res := &ReadResult{}
	for {
		row, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read rows: %w", readErr)
		}
		line, _ := cr.FieldPos(0)
		rec, convErr := decodeRow(cellReader{cols: cols, row: row}, opts)
		if convErr != nil {
			res.Skipped = append(res.Skipped, RowError{Line: line, Err: convErr})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// ReadCSVFile opens and reads path.
func ReadCSVFile(path string, opts ReadOptions) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	res, err := ReadCSV(bufio.NewReader(f), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

type cellReader struct {
	cols map[string]int
	row  []string
}

func (c cellReader) get(col string) string {
	i, ok := c.cols[col]
	if !ok || i >= len(c.row) {
		return ""
	}
	v := strings.TrimSpace(c.row[i])
	if strings.EqualFold(v, NotAvailable) {
		return ""
	}
	return v
}

func (c cellReader) field(col string) lead.Field {
	return lead.Some(c.get(col))
}

func decodeRow(c cellReader, opts ReadOptions) (*lead.Record, error) {
	rec := &lead.Record{
		Name:        c.get(ColName),
		Description: c.field(ColDescription),
		Contact: lead.Contact{
			Email:     c.field(ColEmail),
			Phone:     c.field(ColPhone),
			Website:   c.field(ColWebsite),
			Instagram: c.field(ColInstagram),
			Facebook:  c.field(ColFacebook),
		},
		Location: lead.Location{
			City:    c.field(ColCity),
			Country: c.field(ColCountry),
		},
		Categories: c.field(ColCategories),
		SourceURL:  c.field(ColSourceURL),
	}

	kinds, err := lead.ParseKinds(c.get(ColLeadType))
	if err != nil {
		return nil, err
	}
	if len(kinds) == 0 && opts.DefaultKind != 0 {
		kinds = lead.Kinds{opts.DefaultKind}
	}
	rec.Kinds = kinds

	if region, regionErr := lead.ParseRegion(c.get(ColRegion)); regionErr == nil {
		rec.Location.Region = region
	}

	for s := range strings.SplitSeq(c.get(ColSource), "+") {
		rec.AddSource(s)
	}

	start, err := parseTime(c.get(ColStartDate))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ColStartDate, err)
	}
	end, err := parseTime(c.get(ColEndDate))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ColEndDate, err)
	}
	rec.Temporal = lead.Temporal{Start: start, End: end}

	if rec.ScrapedAt, err = parseTime(c.get(ColScrapedDate)); err != nil {
		return nil, fmt.Errorf("%s: %w", ColScrapedDate, err)
	}
	return rec, nil
}

var timeLayouts = []string{TimestampLayout, DateLayout, time.RFC3339}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
