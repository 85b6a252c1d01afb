package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNiceTicks(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		count  int
		want   []float64
	}{
		{"unit step", 8, 12, 5, []float64{8, 9, 10, 11, 12}},
		{"straddles zero", 0, 100, 5, []float64{0, 25, 50, 75, 100}},
		{"extra ticks above", 10, 15, 5, []float64{10, 12, 14, 16, 18}},
		{"negative range", -12, -8, 5, []float64{-12, -11, -10, -9, -8}},
		{"reversed bounds", 12, 8, 5, []float64{8, 9, 10, 11, 12}},
		{"single value", 5, 5, 5, []float64{3, 4, 5, 6, 7}},
		{"single zero", 0, 0, 5, []float64{0, 1, 2, 3, 4}},
		{"single fraction", 0.5, 0.5, 5, []float64{0.3, 0.4, 0.5, 0.6, 0.7}},
		{"count below two", 0, 10, 1, []float64{0, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NiceTicks(tt.lo, tt.hi, tt.count)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestNiceTicksCoverRange(t *testing.T) {
	ranges := [][2]float64{{1, 1000}, {0.01, 0.07}, {-50, 75}, {1234.5, 98765.4}, {99, 101}}
	for _, r := range ranges {
		ticks := NiceTicks(r[0], r[1], 5)
		if assert.Len(t, ticks, 5, r) {
			assert.LessOrEqual(t, ticks[0], r[0], r)
			assert.GreaterOrEqual(t, ticks[len(ticks)-1], r[1], r)
		}
	}
}

func TestNiceTicksInvalid(t *testing.T) {
	assert.Nil(t, NiceTicks(math.NaN(), 1, 5))
	assert.Nil(t, NiceTicks(0, math.Inf(1), 5))
}

func TestNiceFloor(t *testing.T) {
	assert.InDelta(t, 8, NiceFloor(8, 12, 5), 1e-9)
	assert.InDelta(t, 0, NiceFloor(0, 100, 5), 1e-9)
	assert.InDelta(t, 10, NiceFloor(10, 15, 5), 1e-9)
	assert.True(t, math.IsNaN(NiceFloor(math.NaN(), 1, 5)))
}
