package policy

import (
	"math"

	"BanditLab/internal/stats"
)

// UCB1 plays every arm once, then picks the arm maximising
// value + sqrt(2 ln(total) / count).
type UCB1 struct {
	estimates
}

// NewUCB1 creates a UCB1 policy over n arms. It needs no randomness.
func NewUCB1(n int) (*UCB1, error) {
	cfg := Config{Type: TypeUCB1, N: n}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &UCB1{estimates: newEstimates(n)}, nil
}

func (u *UCB1) Type() Type { return TypeUCB1 }

// Scores returns the upper confidence bound of every arm. Unvisited arms
// score +Inf.
func (u *UCB1) Scores() []float64 {
	scores := make([]float64, len(u.counts))
	total := float64(stats.SumInts(u.counts))
	for i, c := range u.counts {
		if c == 0 {
			scores[i] = math.Inf(1)
			continue
		}
		bonus := math.Sqrt(2 * math.Log(total) / float64(c))
		scores[i] = u.values[i] + bonus
	}
	return scores
}

// SelectArm chooses the next arm.
func (u *UCB1) SelectArm() int {
	for i, c := range u.counts {
		if c == 0 {
			return i
		}
	}
	best, err := stats.Argmax(u.Scores())
	if err != nil {
		panic(err)
	}
	return best
}
