package simulator

import (
	"fmt"

	"BanditLab/internal/arm"
	"BanditLab/internal/model"
	"BanditLab/internal/policy"
	"BanditLab/internal/stats"
)

// Result is the record of one finished run.
type Result struct {
	Rounds []model.Round
	Policy policy.Policy
}

// Simulate builds a policy from cfg and plays it against arms for horizon
// rounds. The policy draws from rng; arms carry their own sources.
func Simulate(cfg policy.Config, arms []arm.RewardSource, horizon int, rng stats.Source) (*Result, error) {
	if len(arms) != cfg.N {
		return nil, fmt.Errorf("%w: %d arms supplied for n=%d", policy.ErrInvalidConfig, len(arms), cfg.N)
	}
	if horizon < 0 {
		return nil, fmt.Errorf("%w: horizon must not be negative, got %d", policy.ErrInvalidConfig, horizon)
	}
	p, err := policy.New(cfg, rng)
	if err != nil {
		return nil, err
	}

	rounds := make([]model.Round, horizon)
	cumulative := 0.0
	for t := 0; t < horizon; t++ {
		i := p.SelectArm()
		reward := arms[i].Pull()
		if err := p.Update(i, reward); err != nil {
			return nil, fmt.Errorf("round %d: %w", t, err)
		}
		cumulative += reward
		rounds[t] = model.Round{Arm: i, Reward: reward, CumulativeReward: cumulative}
	}
	return &Result{Rounds: rounds, Policy: p}, nil
}

// ChosenArms returns the arm picked in each round.
func (r *Result) ChosenArms() []int {
	out := make([]int, len(r.Rounds))
	for i, rd := range r.Rounds {
		out[i] = rd.Arm
	}
	return out
}

// Rewards returns the reward of each round.
func (r *Result) Rewards() []float64 {
	out := make([]float64, len(r.Rounds))
	for i, rd := range r.Rounds {
		out[i] = rd.Reward
	}
	return out
}

// CumulativeRewards returns the running reward total after each round.
func (r *Result) CumulativeRewards() []float64 {
	out := make([]float64, len(r.Rounds))
	for i, rd := range r.Rounds {
		out[i] = rd.CumulativeReward
	}
	return out
}

// TotalReward is the cumulative reward after the last round.
func (r *Result) TotalReward() float64 {
	if len(r.Rounds) == 0 {
		return 0
	}
	return r.Rounds[len(r.Rounds)-1].CumulativeReward
}
