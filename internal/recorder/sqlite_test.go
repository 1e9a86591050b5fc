package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"BanditLab/internal/model"
	"BanditLab/internal/policy"

	"github.com/stretchr/testify/require"
)

func sampleRecord(id string, index int) *RunRecord {
	return &RunRecord{
		RunID:      id,
		Experiment: "eps",
		Policy:     policy.Config{Type: policy.TypeEpsilonGreedy, N: 2, Epsilon: 0.1},
		Seed:       42,
		RunIndex:   index,
		Summary: &model.RunSummary{
			Horizon:       100,
			TotalReward:   70,
			AverageReward: 0.7,
			MaxReward:     80,
			Regret:        10,
			BestArm:       1,
			OptimalRate:   0.85,
			Arms: []model.ArmEstimate{
				{Arm: 0, Probability: 0.2, Pulls: 15, Estimate: 0.2},
				{Arm: 1, Probability: 0.8, Pulls: 85, Estimate: 0.79},
			},
		},
		Curve: []model.CurvePoint{
			{Round: 50, CumulativeReward: 33},
			{Round: 100, CumulativeReward: 70},
		},
		Duration: 3 * time.Millisecond,
	}
}

func TestSQLiteRecorder_RecordAndQuery(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordRun(sampleRecord("run-a", 0)))
	require.NoError(t, r.RecordRun(sampleRecord("run-b", 1)))

	rows, err := r.RecentRuns("eps", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// same second: run_index breaks the tie
	require.Equal(t, "run-b", rows[0].RunID)
	require.Equal(t, "epsilon_greedy", rows[0].Policy)
	require.Equal(t, 100, rows[0].Horizon)
	require.InDelta(t, 10, rows[0].Regret, 1e-9)
	require.InDelta(t, 0.85, rows[0].OptimalRate, 1e-9)

	limited, err := r.RecentRuns("eps", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	none, err := r.RecentRuns("other", 10)
	require.NoError(t, err)
	require.Empty(t, none)

	n, err := r.CurvePointCount("run-a")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestSQLiteRecorder_DuplicateRunRollsBack(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordRun(sampleRecord("dup", 0)))
	require.Error(t, r.RecordRun(sampleRecord("dup", 1)))

	rows, err := r.RecentRuns("eps", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 0, rows[0].RunIndex)
}

func TestSQLiteRecorder_RequiresSummary(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer r.Close()

	rec := sampleRecord("x", 0)
	rec.Summary = nil
	require.Error(t, r.RecordRun(rec))
}

func TestSQLiteRecorder_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordRun(sampleRecord("keep", 0)))
	require.NoError(t, r.Close())

	r2, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r2.Close()
	rows, err := r2.RecentRuns("eps", 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	require.NoError(t, r.RecordRun(sampleRecord("x", 0)))
	rows, err := r.RecentRuns("eps", 1)
	require.NoError(t, err)
	require.Empty(t, rows)
	require.NoError(t, r.Close())
}
