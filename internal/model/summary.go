package model

// ArmEstimate is a policy's final view of one arm next to its true probability.
type ArmEstimate struct {
	Arm         int     `json:"arm"`
	Probability float64 `json:"probability"`
	Pulls       int     `json:"pulls"`
	Estimate    float64 `json:"estimate"`
}

// RunSummary condenses one simulation run.
type RunSummary struct {
	Horizon       int           `json:"horizon"`
	TotalReward   float64       `json:"total_reward"`
	AverageReward float64       `json:"average_reward"`
	MaxReward     float64       `json:"max_reward"` // horizon * best probability
	Regret        float64       `json:"regret"`
	BestArm       int           `json:"best_arm"`
	OptimalRate   float64       `json:"optimal_rate"` // share of rounds spent on BestArm
	Arms          []ArmEstimate `json:"arms"`
}
