package policy

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"BanditLab/internal/stats"
)

var (
	// ErrInvalidConfig is wrapped by every construction-time validation error.
	ErrInvalidConfig = errors.New("invalid policy config")
	// ErrArmOutOfRange is returned by Update for an arm index outside [0, n).
	ErrArmOutOfRange = errors.New("arm index out of range")
)

// Type names a policy variant.
type Type string

const (
	TypeEpsilonGreedy    Type = "epsilon_greedy"
	TypeSoftmax          Type = "softmax"
	TypeAnnealingSoftmax Type = "annealing_softmax"
	TypeUCB1             Type = "ucb1"
)

// Types lists every supported variant.
var Types = []Type{TypeEpsilonGreedy, TypeSoftmax, TypeAnnealingSoftmax, TypeUCB1}

// ParseType accepts the canonical names case-insensitively, with '-' in place of '_'.
func ParseType(s string) (Type, error) {
	norm := Type(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, t := range Types {
		if norm == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, s)
}

// Policy chooses arms and learns from their rewards.
type Policy interface {
	SelectArm() int
	Update(arm int, reward float64) error
	Counts() []int
	Values() []float64
	Type() Type
}

// Config selects and parameterises a policy. Epsilon is read only by
// epsilon_greedy and Temperature only by softmax.
type Config struct {
	Type        Type    `yaml:"policy" json:"policy"`
	N           int     `yaml:"n" json:"n"`
	Epsilon     float64 `yaml:"epsilon,omitempty" json:"epsilon,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
}

// Validate checks the fields used by the selected variant.
func (c Config) Validate() error {
	if c.N <= 0 {
		return fmt.Errorf("%w: n must be positive, got %d", ErrInvalidConfig, c.N)
	}
	switch c.Type {
	case TypeEpsilonGreedy:
		if math.IsNaN(c.Epsilon) || c.Epsilon < 0 || c.Epsilon > 1 {
			return fmt.Errorf("%w: epsilon must be within [0, 1], got %v", ErrInvalidConfig, c.Epsilon)
		}
	case TypeSoftmax:
		if !(c.Temperature > 0) || math.IsInf(c.Temperature, 1) {
			return fmt.Errorf("%w: temperature must be positive and finite, got %v", ErrInvalidConfig, c.Temperature)
		}
	case TypeAnnealingSoftmax, TypeUCB1:
	default:
		return fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, c.Type)
	}
	return nil
}

// String renders the variant with its parameters, e.g. "epsilon_greedy(epsilon=0.1)".
func (c Config) String() string {
	switch c.Type {
	case TypeEpsilonGreedy:
		return fmt.Sprintf("%s(epsilon=%g)", c.Type, c.Epsilon)
	case TypeSoftmax:
		return fmt.Sprintf("%s(temperature=%g)", c.Type, c.Temperature)
	default:
		return string(c.Type)
	}
}

// New constructs the variant named by cfg.Type.
func New(cfg Config, src stats.Source) (Policy, error) {
	switch cfg.Type {
	case TypeEpsilonGreedy:
		return NewEpsilonGreedy(cfg.Epsilon, cfg.N, src)
	case TypeSoftmax:
		return NewSoftmax(cfg.Temperature, cfg.N, src)
	case TypeAnnealingSoftmax:
		return NewAnnealingSoftmax(cfg.N, src)
	case TypeUCB1:
		return NewUCB1(cfg.N)
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, cfg.Type)
	}
}

// estimates holds per-arm pull counts and running-mean rewards.
type estimates struct {
	counts []int
	values []float64
}

func newEstimates(n int) estimates {
	return estimates{
		counts: make([]int, n),
		values: make([]float64, n),
	}
}

// Update records reward for arm.
func (e *estimates) Update(arm int, reward float64) error {
	if arm < 0 || arm >= len(e.counts) {
		return fmt.Errorf("%w: arm %d, n=%d", ErrArmOutOfRange, arm, len(e.counts))
	}
	e.counts[arm]++
	e.values[arm] = stats.RunningMean(e.values[arm], e.counts[arm], reward)
	return nil
}

// Counts returns a copy of the per-arm pull counts.
func (e *estimates) Counts() []int {
	out := make([]int, len(e.counts))
	copy(out, e.counts)
	return out
}

// Values returns a copy of the per-arm estimated values.
func (e *estimates) Values() []float64 {
	out := make([]float64, len(e.values))
	copy(out, e.values)
	return out
}

// bestArm is the first arm holding the highest estimate.
func (e *estimates) bestArm() int {
	best, err := stats.Argmax(e.values)
	if err != nil {
		// n >= 1 is enforced by every constructor
		panic(err)
	}
	return best
}

func requireSource(src stats.Source) error {
	if src == nil {
		return fmt.Errorf("%w: random source is required", ErrInvalidConfig)
	}
	return nil
}
