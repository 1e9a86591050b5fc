package policy

import "BanditLab/internal/stats"

// EpsilonGreedy exploits the best estimate unless a uniform draw falls at or
// below epsilon, in which case it picks an arm uniformly at random.
type EpsilonGreedy struct {
	estimates
	epsilon float64
	src     stats.Source

	lastExploited bool
	exploits      int
}

// NewEpsilonGreedy creates an epsilon-greedy policy over n arms.
func NewEpsilonGreedy(epsilon float64, n int, src stats.Source) (*EpsilonGreedy, error) {
	cfg := Config{Type: TypeEpsilonGreedy, N: n, Epsilon: epsilon}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := requireSource(src); err != nil {
		return nil, err
	}
	return &EpsilonGreedy{
		estimates: newEstimates(n),
		epsilon:   epsilon,
		src:       src,
	}, nil
}

func (g *EpsilonGreedy) Type() Type { return TypeEpsilonGreedy }

// Epsilon returns the exploration probability.
func (g *EpsilonGreedy) Epsilon() float64 { return g.epsilon }

// SelectArm chooses the next arm.
func (g *EpsilonGreedy) SelectArm() int {
	// epsilon == 0 exploits even on a zero draw
	if u := g.src.Float64(); u > g.epsilon || g.epsilon == 0 {
		g.lastExploited = true
		g.exploits++
		return g.bestArm()
	}
	g.lastExploited = false
	return g.src.IntN(len(g.counts))
}

// LastExploited reports whether the most recent SelectArm exploited.
func (g *EpsilonGreedy) LastExploited() bool { return g.lastExploited }

// Exploits returns how many selections exploited the current best arm.
func (g *EpsilonGreedy) Exploits() int { return g.exploits }
