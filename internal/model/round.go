package model

// Round is one step of a simulation.
type Round struct {
	Arm              int     `json:"arm"`
	Reward           float64 `json:"reward"`
	CumulativeReward float64 `json:"cumulative_reward"`
}
