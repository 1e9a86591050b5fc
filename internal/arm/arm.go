package arm

import (
	"errors"
	"fmt"
	"math"

	"BanditLab/internal/stats"
)

// ErrInvalidProbability is returned for success probabilities outside [0, 1].
var ErrInvalidProbability = errors.New("success probability must be within [0, 1]")

// RewardSource defines a single arm of the bandit.
type RewardSource interface {
	Pull() float64
}

// BernoulliArm pays 1 with probability P and 0 otherwise.
type BernoulliArm struct {
	p   float64
	src stats.Source
}

// NewBernoulliArm creates an arm drawing from src.
func NewBernoulliArm(p float64, src stats.Source) (*BernoulliArm, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidProbability, p)
	}
	if src == nil {
		return nil, errors.New("random source is required")
	}
	return &BernoulliArm{p: p, src: src}, nil
}

// P returns the arm's success probability.
func (a *BernoulliArm) P() float64 { return a.p }

// Pull draws a reward. A draw above p pays nothing; anything else, including
// a draw equal to p, pays 1.
func (a *BernoulliArm) Pull() float64 {
	if a.src.Float64() > a.p {
		return 0
	}
	return 1
}

// NewBernoulliArms builds one arm per probability, all sharing src.
func NewBernoulliArms(probs []float64, src stats.Source) ([]RewardSource, error) {
	arms := make([]RewardSource, len(probs))
	for i, p := range probs {
		a, err := NewBernoulliArm(p, src)
		if err != nil {
			return nil, fmt.Errorf("arm %d: %w", i, err)
		}
		arms[i] = a
	}
	return arms, nil
}

// RandomProbabilities draws count probabilities as U[0,1)*scale.
func RandomProbabilities(count int, scale float64, src stats.Source) ([]float64, error) {
	if count <= 0 {
		return nil, errors.New("arm count must be positive")
	}
	if math.IsNaN(scale) || scale <= 0 || scale > 1 {
		return nil, fmt.Errorf("scale must be within (0, 1], got %v", scale)
	}
	probs := make([]float64, count)
	for i := range probs {
		probs[i] = src.Float64() * scale
	}
	return probs, nil
}
