package schema

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// maxFractionDigits matches the default locale rendering of numbers.
const maxFractionDigits = 3

// FormatGrouped renders v with grouped thousands and at most three fraction digits.
func FormatGrouped(v float64) string {
	scale := math.Pow10(maxFractionDigits)
	rounded := math.Round(v*scale) / scale
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return humanize.Commaf(rounded)
}

// Tooltip renders the hover text of a drift bar.
// The initial bar shows its value; every other bar shows the signed change
// followed by the value it lands on, e.g. "+50 => 150".
func (p DriftPoint) Tooltip() string {
	if p.IsInitial {
		return FormatGrouped(p.To)
	}
	delta := p.Delta()
	signed := FormatGrouped(delta)
	if delta > 0 {
		signed = "+" + signed
	}
	return fmt.Sprintf("%s => %s", signed, FormatGrouped(p.To))
}

// GrainOrder returns the position of g in AllTimeGrains, or -1.
func GrainOrder(g TimeGrain) int {
	for i, candidate := range AllTimeGrains {
		if candidate == g {
			return i
		}
	}
	return -1
}
