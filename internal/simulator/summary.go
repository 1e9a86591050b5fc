package simulator

import (
	"errors"

	"BanditLab/internal/model"
	"BanditLab/internal/stats"

	"gonum.org/v1/gonum/floats"
)

// Summarize scores a finished run against the true arm probabilities.
func Summarize(r *Result, probs []float64) (*model.RunSummary, error) {
	counts := r.Policy.Counts()
	if len(probs) != len(counts) {
		return nil, errors.New("probabilities do not match the policy's arm count")
	}
	best, err := stats.Argmax(probs)
	if err != nil {
		return nil, err
	}

	horizon := len(r.Rounds)
	total := r.TotalReward()
	maxP := floats.Max(probs)
	maxReward := float64(horizon) * maxP

	s := &model.RunSummary{
		Horizon:     horizon,
		TotalReward: total,
		MaxReward:   maxReward,
		Regret:      maxReward - total,
		BestArm:     best,
		Arms:        make([]model.ArmEstimate, len(counts)),
	}
	values := r.Policy.Values()
	optimalPulls := 0
	for i := range counts {
		// every arm tied for the highest probability is optimal
		if probs[i] == maxP {
			optimalPulls += counts[i]
		}
		s.Arms[i] = model.ArmEstimate{
			Arm:         i,
			Probability: probs[i],
			Pulls:       counts[i],
			Estimate:    values[i],
		}
	}
	if horizon > 0 {
		s.AverageReward = total / float64(horizon)
		s.OptimalRate = float64(optimalPulls) / float64(horizon)
	}
	return s, nil
}
