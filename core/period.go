package core

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/data-drift/drift/schema"
)

// ErrInvalidPeriodFormat is returned when a label matches none of the period syntaxes.
var ErrInvalidPeriodFormat = errors.New("invalid period format")

// periodPattern pairs a label syntax with the grain it denotes.
type periodPattern struct {
	re    *regexp.Regexp
	grain schema.TimeGrain
}

// periodPatterns are checked in order; the first match wins.
var periodPatterns = []periodPattern{
	{regexp.MustCompile(`^(\d{4})$`), schema.YearGrain},
	{regexp.MustCompile(`^(\d{4})-(\d{2})$`), schema.MonthGrain},
	{regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`), schema.DayGrain},
	{regexp.MustCompile(`^(\d{4})-W(\d{1,2})$`), schema.WeekGrain},
	{regexp.MustCompile(`^(\d{4})-Q([1-4])$`), schema.QuarterGrain},
}

// Period is a validated reporting period label such as "2024-Q2".
// The zero value is not a valid period; use ParsePeriod.
type Period struct {
	label string
	grain schema.TimeGrain
	year  int
	index int // month, week, quarter or day-of-year depending on grain
	month time.Month
	day   int
}

// ParsePeriod validates a label and returns its typed form.
func ParsePeriod(label string) (Period, error) {
	p, ok := matchPeriod(label)
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodFormat, label)
	}
	return p, nil
}

// ClassifyPeriod returns the time grain of a label.
func ClassifyPeriod(label string) (schema.TimeGrain, error) {
	p, err := ParsePeriod(label)
	if err != nil {
		return "", err
	}
	return p.grain, nil
}

// IsValidPeriodLabel reports whether label is accepted by ClassifyPeriod.
func IsValidPeriodLabel(label string) bool {
	_, ok := matchPeriod(label)
	return ok
}

// ParseTimeGrain validates a time grain name.
func ParseTimeGrain(s string) (schema.TimeGrain, error) {
	g := schema.TimeGrain(s)
	if _, ok := schema.ValidTimeGrains[g]; !ok {
		return "", fmt.Errorf("invalid time grain %q: must be year, quarter, month, week, day", s)
	}
	return g, nil
}

func matchPeriod(label string) (Period, bool) {
	for _, pat := range periodPatterns {
		m := pat.re.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		p := Period{label: label, grain: pat.grain}
		p.year, _ = strconv.Atoi(m[1])
		switch pat.grain {
		case schema.YearGrain:
		case schema.MonthGrain:
			month, _ := strconv.Atoi(m[2])
			if month < 1 || month > 12 {
				return Period{}, false
			}
			p.month = time.Month(month)
			p.index = month
		case schema.DayGrain:
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			if month < 1 || month > 12 || day < 1 || day > daysIn(time.Month(month), p.year) {
				return Period{}, false
			}
			p.month, p.day = time.Month(month), day
			p.index = time.Date(p.year, p.month, day, 0, 0, 0, 0, time.UTC).YearDay()
		case schema.WeekGrain:
			week, _ := strconv.Atoi(m[2])
			if week < 1 || week > isoWeeksIn(p.year) {
				return Period{}, false
			}
			p.index = week
		case schema.QuarterGrain:
			p.index, _ = strconv.Atoi(m[2])
		}
		return p, true
	}
	return Period{}, false
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// isoWeeksIn returns 52 or 53; December 28 always falls in the last ISO week.
func isoWeeksIn(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// Label returns the label the period was parsed from.
func (p Period) Label() string { return p.label }

// Grain returns the time grain of the period.
func (p Period) Grain() schema.TimeGrain { return p.grain }

// String implements fmt.Stringer.
func (p Period) String() string { return p.label }

// IsZero reports whether p was not produced by ParsePeriod.
func (p Period) IsZero() bool { return p.grain == "" }

// Bounds returns the half-open UTC interval [start, end) covered by the period.
// Weeks follow ISO-8601 and start on Monday.
func (p Period) Bounds() (time.Time, time.Time) {
	switch p.grain {
	case schema.YearGrain:
		start := time.Date(p.year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	case schema.QuarterGrain:
		start := time.Date(p.year, time.Month(3*(p.index-1)+1), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 3, 0)
	case schema.MonthGrain:
		start := time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	case schema.WeekGrain:
		jan4 := time.Date(p.year, time.January, 4, 0, 0, 0, 0, time.UTC)
		offset := (int(jan4.Weekday()) + 6) % 7 // days since Monday
		start := jan4.AddDate(0, 0, -offset+7*(p.index-1))
		return start, start.AddDate(0, 0, 7)
	case schema.DayGrain:
		start := time.Date(p.year, p.month, p.day, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 1)
	default:
		return time.Time{}, time.Time{}
	}
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	start, end := p.Bounds()
	return !t.Before(start) && t.Before(end)
}

// PeriodOf returns the label of the period of the given grain containing t (in UTC).
func PeriodOf(t time.Time, grain schema.TimeGrain) (Period, error) {
	t = t.UTC()
	var label string
	switch grain {
	case schema.YearGrain:
		label = fmt.Sprintf("%04d", t.Year())
	case schema.QuarterGrain:
		label = fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case schema.MonthGrain:
		label = t.Format("2006-01")
	case schema.WeekGrain:
		y, w := t.ISOWeek()
		label = fmt.Sprintf("%04d-W%02d", y, w)
	case schema.DayGrain:
		label = t.Format(time.DateOnly)
	default:
		return Period{}, fmt.Errorf("invalid time grain %q", grain)
	}
	return ParsePeriod(label)
}
