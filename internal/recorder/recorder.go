package recorder

import (
	"time"

	"BanditLab/internal/model"
	"BanditLab/internal/policy"
)

// RunRecord holds everything persisted for one simulation run.
type RunRecord struct {
	RunID      string
	Experiment string
	Policy     policy.Config
	Seed       uint64
	RunIndex   int
	Summary    *model.RunSummary
	Curve      []model.CurvePoint
	Duration   time.Duration
}

// RunRow is a stored run as read back for reporting.
type RunRow struct {
	RunID       string
	Experiment  string
	Policy      string
	RunIndex    int
	Horizon     int
	TotalReward float64
	Regret      float64
	OptimalRate float64
	RecordedAt  time.Time
}

// Recorder persists simulation results for analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecentRuns(experiment string, limit int) ([]RunRow, error)
	Close() error
}
