package schema

// DriftPoint is one bar of a waterfall series.
// From and To form the bar interval: the axis floor and first value for the
// initial bar, the previous and current value for every other bar.
type DriftPoint struct {
	Label           string  `json:"label"` // MM-DD of the commit
	From            float64 `json:"from"`
	To              float64 `json:"to"`
	IsInitial       bool    `json:"is_initial"`
	Weight          Weight  `json:"weight"`
	CommitID        string  `json:"commit_id"`
	CommitTimestamp int64   `json:"commit_timestamp"`
	CommitURL       string  `json:"commit_url,omitempty"`
}

// Interval returns the (from, to) pair of the bar.
func (p DriftPoint) Interval() [2]float64 {
	return [2]float64{p.From, p.To}
}

// Delta returns the signed change carried by the bar.
func (p DriftPoint) Delta() float64 {
	return p.To - p.From
}

// WaterfallSeries is the ordered drift series of a period report.
type WaterfallSeries struct {
	Points   []DriftPoint `json:"points"`
	Floor    float64      `json:"floor"` // lowest nice tick, start of the initial bar
	Min      float64      `json:"min"`
	Max      float64      `json:"max"`
	Ticks    []float64    `json:"ticks"`
	Skipped  int          `json:"skipped"`  // entries whose value equals their predecessor
	Excluded int          `json:"excluded"` // entries whose KPI could not be parsed
}

// WaterfallResult is a waterfall series together with what it describes.
type WaterfallResult struct {
	MetricName     string          `json:"metric_name"`
	Period         string          `json:"period"`
	TimeGrain      TimeGrain       `json:"time_grain"`
	Dimension      string          `json:"dimension"`
	DimensionValue string          `json:"dimension_value"`
	Series         WaterfallSeries `json:"series"`
}
