package core

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
	"github.com/shopspring/decimal"
)

// ErrInvalidKPI is returned when a KPI value is not a decimal number.
var ErrInvalidKPI = errors.New("invalid KPI value")

// labelLayout renders the month and day of a commit, e.g. "03-15".
const labelLayout = "01-02"

// BuildOption customizes BuildWaterfall.
type BuildOption func(*buildOptions)

type buildOptions struct {
	loc       *time.Location
	tickCount int
	warn      func(commitID string, err error)
}

// WithLocation sets the zone used to render point labels. Defaults to time.Local.
func WithLocation(loc *time.Location) BuildOption {
	return func(o *buildOptions) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithTickCount sets the number of axis ticks the floor is picked from.
func WithTickCount(n int) BuildOption {
	return func(o *buildOptions) {
		if n > 0 {
			o.tickCount = n
		}
	}
}

// WithWarnFunc sets the callback for records excluded from the series.
func WithWarnFunc(fn func(commitID string, err error)) BuildOption {
	return func(o *buildOptions) { o.warn = fn }
}

// ParseKPI parses the decimal text of a KPI value.
func ParseKPI(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKPI, s)
	}
	v := d.InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidKPI, s)
	}
	return v, nil
}

// keptRecord is a history entry that survived filtering.
type keptRecord struct {
	id     string
	value  float64
	record schema.CommitRecord
}

// BuildWaterfall turns the history of one period into an ordered drift series.
//
// Only commits flagged IsAfterPeriod take part. They are sorted by timestamp,
// ties broken by commit ID. The first one becomes the initial bar, rising from
// the lowest nice tick of the value range. Each later commit becomes a bar
// from its sorted predecessor's value to its own, unless both values are equal.
// Records whose KPI cannot be parsed are excluded and reported to the warn callback.
func BuildWaterfall(history map[string]schema.CommitRecord, opts ...BuildOption) schema.WaterfallSeries {
	o := buildOptions{loc: time.Local, tickCount: contract.DefaultTickCount}
	for _, opt := range opts {
		opt(&o)
	}

	series := schema.WaterfallSeries{Points: []schema.DriftPoint{}}

	ids := make([]string, 0, len(history))
	for id, rec := range history {
		if rec.IsAfterPeriod {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	kept := make([]keptRecord, 0, len(ids))
	for _, id := range ids {
		rec := history[id]
		value, err := ParseKPI(rec.KPI)
		if err != nil {
			series.Excluded++
			if o.warn != nil {
				o.warn(id, err)
			}
			continue
		}
		kept = append(kept, keptRecord{id: id, value: value, record: rec})
	}
	if len(kept) == 0 {
		return series
	}

	slices.SortStableFunc(kept, func(a, b keptRecord) int {
		return cmp.Or(
			cmp.Compare(a.record.CommitTimestamp, b.record.CommitTimestamp),
			cmp.Compare(a.id, b.id),
		)
	})

	series.Min, series.Max = kept[0].value, kept[0].value
	for _, k := range kept[1:] {
		series.Min = min(series.Min, k.value)
		series.Max = max(series.Max, k.value)
	}
	series.Ticks = NiceTicks(series.Min, series.Max, o.tickCount)
	series.Floor = series.Min
	if len(series.Ticks) > 0 {
		series.Floor = series.Ticks[0]
	}

	first := kept[0]
	series.Points = append(series.Points, newDriftPoint(first, series.Floor, o.loc, true))

	for i := 1; i < len(kept); i++ {
		prev, cur := kept[i-1].value, kept[i].value
		if prev == cur {
			series.Skipped++
			continue
		}
		series.Points = append(series.Points, newDriftPoint(kept[i], prev, o.loc, false))
	}
	return series
}

func newDriftPoint(k keptRecord, from float64, loc *time.Location, initial bool) schema.DriftPoint {
	weight := schema.NeutralWeight
	if !initial {
		weight = schema.UpWeight
		if from > k.value {
			weight = schema.DownWeight
		}
	}
	return schema.DriftPoint{
		Label:           time.Unix(k.record.CommitTimestamp, 0).In(loc).Format(labelLayout),
		From:            from,
		To:              k.value,
		IsInitial:       initial,
		Weight:          weight,
		CommitID:        k.id,
		CommitTimestamp: k.record.CommitTimestamp,
		CommitURL:       k.record.CommitURL,
	}
}
