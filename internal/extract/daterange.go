package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
)

// DateRule is one named date-range grammar.
type DateRule struct {
	Name  string
	Apply func(text string) (start, end time.Time, ok bool)
}

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

var (
	weekdayToken = regexp.MustCompile(
		`(?i)\b(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday|Mon|Tues|Tue|Wed|Thurs|Thur|Thu|Fri|Sat|Sun)\b\.?,?\s*`,
	)
	monthAbbrev = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec)\b\.?`)

	monthDaysYear  = regexp.MustCompile(`(?i)\b(` + monthNames + `)\s+(\d{1,2})\s*-\s*(\d{1,2}),?\s+(\d{4})\b`)
	daysMonthYear  = regexp.MustCompile(`(?i)\b(\d{1,2})\s*-\s*(\d{1,2})\s+(` + monthNames + `),?\s+(\d{4})\b`)
	monthDayYearTo = regexp.MustCompile(
		`(?i)\b(` + monthNames + `)\s+(\d{1,2}),?\s+(\d{4})\s*(?:to|until|-)\s*(` + monthNames + `)\s+(\d{1,2}),?\s+(\d{4})\b`,
	)
	isoTo        = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\s*(?:to|until|-)\s*(\d{4}-\d{2}-\d{2})\b`)
	dayMonthSpan = regexp.MustCompile(
		`(?i)\b(\d{1,2})\s+(` + monthNames + `)\s*-\s*(\d{1,2})\s+(` + monthNames + `),?\s+(\d{4})\b`,
	)
)

var abbrevToMonth = map[string]string{
	"jan": "January", "feb": "February", "mar": "March", "apr": "April",
	"jun": "June", "jul": "July", "aug": "August", "sep": "September",
	"sept": "September", "oct": "October", "nov": "November", "dec": "December",
}

// DateRules are tried in this order; the first valid match wins. Within a
// rule every hit is tried, so an impossible date does not hide a later
// valid range of the same shape.
var DateRules = []DateRule{
	{Name: "month-days-year", Apply: func(s string) (time.Time, time.Time, bool) {
		return firstSpan(monthDaysYear, s, func(m []string) (time.Time, time.Time, bool) {
			return span(m[4], m[1], m[2], m[4], m[1], m[3])
		})
	}},
	{Name: "days-month-year", Apply: func(s string) (time.Time, time.Time, bool) {
		return firstSpan(daysMonthYear, s, func(m []string) (time.Time, time.Time, bool) {
			return span(m[4], m[3], m[1], m[4], m[3], m[2])
		})
	}},
	{Name: "month-day-year-to", Apply: func(s string) (time.Time, time.Time, bool) {
		return firstSpan(monthDayYearTo, s, func(m []string) (time.Time, time.Time, bool) {
			return span(m[3], m[1], m[2], m[6], m[4], m[5])
		})
	}},
	{Name: "iso-to", Apply: func(s string) (time.Time, time.Time, bool) {
		return firstSpan(isoTo, s, func(m []string) (time.Time, time.Time, bool) {
			start, err1 := time.Parse(time.DateOnly, m[1])
			end, err2 := time.Parse(time.DateOnly, m[2])
			if err1 != nil || err2 != nil || start.After(end) {
				return time.Time{}, time.Time{}, false
			}
			return start, end, true
		})
	}},
	{Name: "day-month-span", Apply: func(s string) (time.Time, time.Time, bool) {
		return firstSpan(dayMonthSpan, s, func(m []string) (time.Time, time.Time, bool) {
			startYear := m[5]
			if monthIndex(m[2]) > monthIndex(m[4]) {
				y, _ := strconv.Atoi(m[5])
				startYear = strconv.Itoa(y - 1)
			}
			return span(startYear, m[2], m[1], m[5], m[4], m[3])
		})
	}},
}

func firstSpan(re *regexp.Regexp, s string, build func(m []string) (time.Time, time.Time, bool)) (time.Time, time.Time, bool) {
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		if start, end, ok := build(m); ok {
			return start, end, true
		}
	}
	return time.Time{}, time.Time{}, false
}

// PrepareDateText drops weekday names and expands abbreviated months
// ("Fri. Sept. 5" -> "September 5").
func PrepareDateText(s string) string {
	s = weekdayToken.ReplaceAllString(textnorm.Normalize(s), "")
	return monthAbbrev.ReplaceAllStringFunc(s, func(tok string) string {
		key := strings.ToLower(strings.TrimSuffix(tok, "."))
		if full, ok := abbrevToMonth[key]; ok {
			return full
		}
		return tok
	})
}

// DateRange returns both endpoints of the first recognised range, or ok=false.
func DateRange(text string) (start, end time.Time, ok bool) {
	start, end, _, ok = MatchDateRange(text)
	return start, end, ok
}

// MatchDateRange is DateRange plus the name of the winning rule.
func MatchDateRange(text string) (start, end time.Time, rule string, ok bool) {
	prepared := PrepareDateText(text)
	for _, r := range DateRules {
		if s, e, hit := r.Apply(prepared); hit {
			return s, e, r.Name, true
		}
	}
	return time.Time{}, time.Time{}, "", false
}

func span(y1, m1, d1, y2, m2, d2 string) (time.Time, time.Time, bool) {
	start, ok1 := civil(y1, m1, d1)
	end, ok2 := civil(y2, m2, d2)
	if !ok1 || !ok2 || start.After(end) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// civil builds a UTC date and rejects impossible days such as September 31.
func civil(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	m := monthIndex(month)
	if m == 0 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

func monthIndex(name string) int {
	for i := time.January; i <= time.December; i++ {
		if strings.EqualFold(i.String(), name) {
			return int(i)
		}
	}
	return 0
}
