package result

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintProducesOneRowPerLap(t *testing.T) {
	r := &Result{
		TotNoLaps:      2,
		CarDriverPairs: []CarDriverPair{{CarNo: 1, DriverInitials: "ABC"}, {CarNo: 2, DriverInitials: "XYZ"}},
		Laptimes: [][]float64{
			{0, 90.1, 89.5},
			{0, 90.8, 89.9},
		},
		Racetimes: [][]float64{
			{0, 90.1, 179.6},
			{0, 90.8, 180.7},
		},
	}

	var sb strings.Builder
	r.Print(&sb)

	out := sb.String()
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "ABC")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3) // header + 2 laps
}

func TestWinnerIsLowestFinalRacetime(t *testing.T) {
	r := &Result{
		TotNoLaps: 2,
		CarDriverPairs: []CarDriverPair{{CarNo: 1}, {CarNo: 2}},
		Racetimes: [][]float64{
			{0, 90.1, 179.6},
			{0, 90.8, 175.0},
		},
	}
	assert.Equal(t, 1, r.Winner())
}

func TestWinnerExcludesUnfinishedCars(t *testing.T) {
	r := &Result{
		TotNoLaps: 2,
		CarDriverPairs: []CarDriverPair{{CarNo: 1}, {CarNo: 2}},
		Racetimes: [][]float64{
			{0, 90.1, 0}, // did not finish
			{0, 90.8, 175.0},
		},
	}
	assert.Equal(t, 1, r.Winner())
}
