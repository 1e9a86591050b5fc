package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Softmax converts values into a Boltzmann distribution at the given
// temperature. Values are shifted by their maximum before dividing, so the
// largest exponent is exactly zero even when value/temperature overflows.
func Softmax(values []float64, temperature float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, errors.New("softmax of empty slice")
	}
	if !(temperature > 0) || math.IsInf(temperature, 1) {
		return nil, errors.New("temperature must be positive and finite")
	}

	shift := floats.Max(values)
	probs := make([]float64, len(values))
	for i, v := range values {
		probs[i] = math.Exp((v - shift) / temperature)
	}
	floats.Scale(1/floats.Sum(probs), probs)
	return probs, nil
}

// CategoricalIndex maps a uniform draw z onto probs: it returns the first
// index whose cumulative probability exceeds z, or the last index when
// rounding leaves the cumulative sum short of z.
func CategoricalIndex(probs []float64, z float64) int {
	cum := 0.0
	for i, p := range probs {
		cum += p
		if cum > z {
			return i
		}
	}
	return len(probs) - 1
}

// Categorical draws an index from probs using src.
func Categorical(probs []float64, src Source) int {
	return CategoricalIndex(probs, src.Float64())
}
