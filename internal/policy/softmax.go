package policy

import (
	"math"

	"BanditLab/internal/stats"
)

// annealingOffset keeps ln(t) away from zero on the first round.
const annealingOffset = 1e-7

// Softmax samples arms from a Boltzmann distribution over the estimates at a
// fixed temperature.
type Softmax struct {
	estimates
	temperature float64
	src         stats.Source
}

// NewSoftmax creates a softmax policy over n arms.
func NewSoftmax(temperature float64, n int, src stats.Source) (*Softmax, error) {
	cfg := Config{Type: TypeSoftmax, N: n, Temperature: temperature}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := requireSource(src); err != nil {
		return nil, err
	}
	return &Softmax{
		estimates:   newEstimates(n),
		temperature: temperature,
		src:         src,
	}, nil
}

func (s *Softmax) Type() Type { return TypeSoftmax }

// Temperature returns the configured temperature.
func (s *Softmax) Temperature() float64 { return s.temperature }

// Probabilities returns the current selection distribution.
func (s *Softmax) Probabilities() []float64 {
	return boltzmann(s.values, s.temperature)
}

// SelectArm draws the next arm from Probabilities.
func (s *Softmax) SelectArm() int {
	return stats.Categorical(s.Probabilities(), s.src)
}

// AnnealingSoftmax is Softmax with temperature 1/ln(t) where t is one more
// than the number of updates so far, so exploration fades as data accrues.
type AnnealingSoftmax struct {
	estimates
	src stats.Source
}

// NewAnnealingSoftmax creates an annealing softmax policy over n arms.
func NewAnnealingSoftmax(n int, src stats.Source) (*AnnealingSoftmax, error) {
	cfg := Config{Type: TypeAnnealingSoftmax, N: n}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := requireSource(src); err != nil {
		return nil, err
	}
	return &AnnealingSoftmax{
		estimates: newEstimates(n),
		src:       src,
	}, nil
}

func (a *AnnealingSoftmax) Type() Type { return TypeAnnealingSoftmax }

// Temperature returns the temperature the next selection will use.
func (a *AnnealingSoftmax) Temperature() float64 {
	t := float64(stats.SumInts(a.counts) + 1)
	return 1 / math.Log(t+annealingOffset)
}

// Probabilities returns the current selection distribution.
func (a *AnnealingSoftmax) Probabilities() []float64 {
	return boltzmann(a.values, a.Temperature())
}

// SelectArm draws the next arm from Probabilities.
func (a *AnnealingSoftmax) SelectArm() int {
	return stats.Categorical(a.Probabilities(), a.src)
}

func boltzmann(values []float64, temperature float64) []float64 {
	probs, err := stats.Softmax(values, temperature)
	if err != nil {
		// values is never empty and temperatures are validated or derived positive
		panic(err)
	}
	return probs
}
