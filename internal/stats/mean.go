package stats

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// RunningMean folds reward into a mean that already covers count-1 samples.
// count is the sample count after the new reward has been added.
func RunningMean(oldMean float64, count int, reward float64) float64 {
	n := float64(count)
	return (oldMean*(n-1) + reward) / n
}

// SumInts returns the sum of the given counts.
func SumInts(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

// Argmax returns the index of the largest value, first index on ties.
func Argmax(values []float64) (int, error) {
	if len(values) == 0 {
		return 0, errors.New("argmax of empty slice")
	}
	return floats.MaxIdx(values), nil
}
