package model

import "time"

// RunOutcome is one finished run of an experiment.
type RunOutcome struct {
	RunID    string        `json:"run_id"`
	RunIndex int           `json:"run_index"`
	Summary  *RunSummary   `json:"summary"`
	Curve    []CurvePoint  `json:"-"`
	Duration time.Duration `json:"duration"`
}

// ExperimentReport aggregates all runs of one experiment.
type ExperimentReport struct {
	Name              string       `json:"name"`
	Policy            string       `json:"policy"`
	Arms              []float64    `json:"arms"`
	Horizon           int          `json:"horizon"`
	Runs              int          `json:"runs"`
	MeanTotalReward   float64      `json:"mean_total_reward"`
	StdDevTotalReward float64      `json:"stddev_total_reward"`
	MeanRegret        float64      `json:"mean_regret"`
	MeanOptimalRate   float64      `json:"mean_optimal_rate"`
	MeanArmPulls      []float64    `json:"mean_arm_pulls"`
	MeanCurve         []CurvePoint `json:"mean_curve"` // cumulative reward averaged over runs
	Outcomes          []RunOutcome `json:"outcomes"`
	FinishedAt        time.Time    `json:"finished_at"`
}
