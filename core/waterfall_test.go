package core

import (
	"testing"
	"time"

	"github.com/data-drift/drift/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ts returns the unix seconds of a UTC date.
func ts(month time.Month, day int) int64 {
	return time.Date(2024, month, day, 12, 0, 0, 0, time.UTC).Unix()
}

func rec(kpi string, at int64, after bool) schema.CommitRecord {
	return schema.CommitRecord{KPI: kpi, CommitTimestamp: at, IsAfterPeriod: after}
}

func TestBuildWaterfallInitialPoint(t *testing.T) {
	history := map[string]schema.CommitRecord{
		"a": rec("10", ts(3, 1), true),
		"b": rec("12", ts(3, 2), true),
		"c": rec("8", ts(3, 3), true),
	}
	series := BuildWaterfall(history, WithLocation(time.UTC))

	require.Len(t, series.Points, 3)
	first := series.Points[0]
	assert.True(t, first.IsInitial)
	assert.Equal(t, schema.NeutralWeight, first.Weight)
	assert.InDelta(t, 8, first.From, 1e-9)
	assert.InDelta(t, 10, first.To, 1e-9)
	assert.Equal(t, "03-01", first.Label)
	assert.InDelta(t, 8, series.Floor, 1e-9)
	assert.InDelta(t, 8, series.Min, 1e-9)
	assert.InDelta(t, 12, series.Max, 1e-9)
	assert.InDeltaSlice(t, []float64{8, 9, 10, 11, 12}, series.Ticks, 1e-9)

	assert.Equal(t, [2]float64{10, 12}, series.Points[1].Interval())
	assert.Equal(t, schema.UpWeight, series.Points[1].Weight)
	assert.Equal(t, [2]float64{12, 8}, series.Points[2].Interval())
	assert.Equal(t, schema.DownWeight, series.Points[2].Weight)
}

func TestBuildWaterfallFiltersOutsidePeriod(t *testing.T) {
	history := map[string]schema.CommitRecord{
		"a": rec("100", ts(1, 1), false),
		"b": rec("10", ts(3, 1), true),
		"c": rec("15", ts(3, 2), true),
	}
	series := BuildWaterfall(history, WithLocation(time.UTC))

	require.Len(t, series.Points, 2)
	assert.Equal(t, "b", series.Points[0].CommitID)
	assert.Equal(t, "c", series.Points[1].CommitID)
	assert.InDelta(t, 15, series.Max, 1e-9)
}

func TestBuildWaterfallSortsByTimestamp(t *testing.T) {
	history := map[string]schema.CommitRecord{
		"z": rec("3", ts(3, 3), true),
		"x": rec("1", ts(3, 1), true),
		"y": rec("2", ts(3, 2), true),
	}
	series := BuildWaterfall(history, WithLocation(time.UTC))

	require.Len(t, series.Points, 3)
	labels := []string{series.Points[0].Label, series.Points[1].Label, series.Points[2].Label}
	assert.Equal(t, []string{"03-01", "03-02", "03-03"}, labels)
}

func TestBuildWaterfallTieBreakByCommitID(t *testing.T) {
	same := ts(3, 1)
	history := map[string]schema.CommitRecord{
		"bbb": rec("20", same, true),
		"aaa": rec("10", same, true),
	}
	for range 5 {
		series := BuildWaterfall(history, WithLocation(time.UTC))
		require.Len(t, series.Points, 2)
		assert.Equal(t, "aaa", series.Points[0].CommitID)
		assert.Equal(t, "bbb", series.Points[1].CommitID)
	}
}

func TestBuildWaterfallSkipsEqualValues(t *testing.T) {
	history := map[string]schema.CommitRecord{
		"a": rec("10", ts(3, 1), true),
		"b": rec("10", ts(3, 2), true),
		"c": rec("15", ts(3, 3), true),
		"d": rec("15.0", ts(3, 4), true),
		"e": rec("12", ts(3, 5), true),
	}
	series := BuildWaterfall(history, WithLocation(time.UTC))

	require.Len(t, series.Points, 3)
	assert.Equal(t, 2, series.Skipped)
	assert.Equal(t, "a", series.Points[0].CommitID)
	// c compares against b, the sorted predecessor
	assert.Equal(t, "c", series.Points[1].CommitID)
	assert.Equal(t, [2]float64{10, 15}, series.Points[1].Interval())
	// e compares against the skipped d
	assert.Equal(t, "e", series.Points[2].CommitID)
	assert.Equal(t, [2]float64{15, 12}, series.Points[2].Interval())
}

func TestBuildWaterfallEmpty(t *testing.T) {
	series := BuildWaterfall(nil)
	assert.Empty(t, series.Points)
	assert.NotNil(t, series.Points)

	series = BuildWaterfall(map[string]schema.CommitRecord{"a": rec("1", ts(3, 1), false)})
	assert.Empty(t, series.Points)
}

func TestBuildWaterfallExcludesInvalidKPI(t *testing.T) {
	history := map[string]schema.CommitRecord{
		"a": rec("10", ts(3, 1), true),
		"b": rec("n/a", ts(3, 2), true),
		"c": rec("", ts(3, 3), true),
		"d": rec(" 20 ", ts(3, 4), true),
		"e": rec("1e400", ts(3, 5), true),
	}
	var warned []string
	series := BuildWaterfall(history,
		WithLocation(time.UTC),
		WithWarnFunc(func(id string, err error) {
			assert.ErrorIs(t, err, ErrInvalidKPI)
			warned = append(warned, id)
		}),
	)

	assert.Equal(t, []string{"b", "c", "e"}, warned)
	assert.Equal(t, 3, series.Excluded)
	require.Len(t, series.Points, 2)
	assert.Equal(t, [2]float64{10, 20}, series.Points[1].Interval())
	assert.InDelta(t, 10, series.Min, 1e-9)
}

func TestBuildWaterfallLabelUsesLocation(t *testing.T) {
	// 23:30 UTC on March 1 is already March 2 in Tokyo
	at := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC).Unix()
	history := map[string]schema.CommitRecord{"a": rec("1", at, true)}

	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "03-02", BuildWaterfall(history, WithLocation(tokyo)).Points[0].Label)
	assert.Equal(t, "03-01", BuildWaterfall(history, WithLocation(time.UTC)).Points[0].Label)
}

func TestBuildWaterfallTickCount(t *testing.T) {
	history := map[string]schema.CommitRecord{
		"a": rec("0", ts(3, 1), true),
		"b": rec("100", ts(3, 2), true),
	}
	series := BuildWaterfall(history, WithLocation(time.UTC), WithTickCount(3))
	assert.InDeltaSlice(t, []float64{0, 50, 100}, series.Ticks, 1e-9)
	assert.InDelta(t, 0, series.Points[0].From, 1e-9)
}

func TestParseKPI(t *testing.T) {
	v, err := ParseKPI("1234.5")
	require.NoError(t, err)
	assert.InDelta(t, 1234.5, v, 1e-9)

	v, err = ParseKPI("-0.25")
	require.NoError(t, err)
	assert.InDelta(t, -0.25, v, 1e-9)

	_, err = ParseKPI("1,234")
	assert.ErrorIs(t, err, ErrInvalidKPI)

	_, err = ParseKPI("1e400")
	assert.ErrorIs(t, err, ErrInvalidKPI)
	_, err = ParseKPI("-1e400")
	assert.ErrorIs(t, err, ErrInvalidKPI)
}
