package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// Limits for the nice tick search.
const (
	maxTickCorrections = 1000
	maxTickValues      = 100000
)

var (
	decTen       = decimal.NewFromInt(10)
	decTenth     = decimal.New(1, -1)
	decTwentieth = decimal.New(5, -2)
)

// NiceTicks returns about count round axis values covering [lo, hi].
// It follows the usual charting heuristic: the step is the rough step rounded up
// to a multiple of 0.1 (single digit ranges) or 0.05 of its leading power of ten,
// and the ticks are anchored on 0 when the range straddles it.
// Arithmetic is decimal so that values such as 0.1 + 0.2 stay exact.
func NiceTicks(lo, hi float64, count int) []float64 {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil
	}
	count = max(count, 2)
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return singleValueTicks(lo, count)
	}

	dmin, dmax := decimal.NewFromFloat(lo), decimal.NewFromFloat(hi)
	step, tickMin, tickMax, ok := calculateStep(dmin, dmax, count)
	if !ok || !step.IsPositive() {
		return nil
	}

	end := tickMax.Add(decTenth.Mul(step))
	ticks := make([]float64, 0, count)
	for v, i := tickMin, 0; v.LessThan(end) && i < maxTickValues; v, i = v.Add(step), i+1 {
		ticks = append(ticks, v.InexactFloat64())
	}
	return ticks
}

// NiceFloor returns the lowest nice tick for [lo, hi], or lo when no ticks exist.
func NiceFloor(lo, hi float64, count int) float64 {
	ticks := NiceTicks(lo, hi, count)
	if len(ticks) == 0 {
		return math.Min(lo, hi)
	}
	return ticks[0]
}

func calculateStep(dmin, dmax decimal.Decimal, count int) (step, tickMin, tickMax decimal.Decimal, ok bool) {
	rough := dmax.Sub(dmin).Div(decimal.NewFromInt(int64(count - 1)))
	for correction := 0; correction < maxTickCorrections; correction++ {
		step = formatStep(rough, correction)
		if !step.IsPositive() {
			return step, step, step, false
		}

		var middle decimal.Decimal
		if !dmin.IsPositive() && !dmax.IsNegative() {
			middle = decimal.Zero
		} else {
			middle = dmin.Add(dmax).Div(decimal.NewFromInt(2))
			middle = middle.Sub(middle.Mod(step))
		}

		below := int(middle.Sub(dmin).Div(step).Ceil().IntPart())
		up := int(dmax.Sub(middle).Div(step).Ceil().IntPart())
		scale := below + up + 1
		if scale > count {
			continue
		}
		if scale < count {
			if dmax.IsPositive() {
				up += count - scale
			} else {
				below += count - scale
			}
		}
		tickMin = middle.Sub(decimal.NewFromInt(int64(below)).Mul(step))
		tickMax = middle.Add(decimal.NewFromInt(int64(up)).Mul(step))
		return step, tickMin, tickMax, true
	}
	return step, tickMin, tickMax, false
}

// formatStep rounds a rough step up to a readable value.
func formatStep(rough decimal.Decimal, correction int) decimal.Decimal {
	if !rough.IsPositive() {
		return decimal.Zero
	}
	digits := digitCount(rough)
	digitValue := decTen.Pow(decimal.NewFromInt(int64(digits)))
	ratio := rough.Div(digitValue)
	ratioScale := decTwentieth
	if digits == 1 {
		ratioScale = decTenth
	}
	amended := ratio.Div(ratioScale).Ceil().Add(decimal.NewFromInt(int64(correction))).Mul(ratioScale)
	return amended.Mul(digitValue)
}

// digitCount returns floor(log10(|d|)) + 1, and 1 for zero.
func digitCount(d decimal.Decimal) int {
	if d.IsZero() {
		return 1
	}
	coef := d.Abs().Coefficient().String()
	return len(coef) + int(d.Exponent())
}

func singleValueTicks(v float64, count int) []float64 {
	step := decimal.NewFromInt(1)
	middle := decimal.NewFromFloat(v)

	switch {
	case !middle.IsInteger():
		abs := math.Abs(v)
		if abs < 1 {
			step = decTen.Pow(decimal.NewFromInt(int64(digitCount(middle) - 1)))
			middle = middle.Div(step).Floor().Mul(step)
		} else if abs > 1 {
			middle = middle.Floor()
		}
	case v == 0:
		middle = decimal.NewFromInt(int64((count - 1) / 2))
	}

	middleIndex := (count - 1) / 2
	ticks := make([]float64, count)
	for n := range count {
		ticks[n] = middle.Add(decimal.NewFromInt(int64(n - middleIndex)).Mul(step)).InexactFloat64()
	}
	return ticks
}
