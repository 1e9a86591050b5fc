package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists simulation runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while a batch is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id         TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			experiment     TEXT NOT NULL,
			policy         TEXT NOT NULL,
			epsilon        REAL,
			temperature    REAL,
			arm_count      INTEGER,
			seed           INTEGER,
			run_index      INTEGER,
			horizon        INTEGER,
			total_reward   REAL,
			average_reward REAL,
			max_reward     REAL,
			regret         REAL,
			best_arm       INTEGER,
			optimal_rate   REAL,
			duration_ms    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_experiment_ts ON runs(experiment, timestamp)`,

		`CREATE TABLE IF NOT EXISTS arm_estimates (
			run_id      TEXT NOT NULL,
			arm         INTEGER NOT NULL,
			probability REAL,
			pulls       INTEGER,
			estimate    REAL,
			PRIMARY KEY (run_id, arm)
		)`,

		`CREATE TABLE IF NOT EXISTS reward_curves (
			run_id            TEXT NOT NULL,
			round             INTEGER NOT NULL,
			cumulative_reward REAL,
			PRIMARY KEY (run_id, round)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores a run, its final arm estimates and its reward curve in
// one transaction.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := rec.Summary
	if sum == nil {
		return fmt.Errorf("run %s has no summary", rec.RunID)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(run_id, timestamp, experiment, policy, epsilon, temperature, arm_count,
		 seed, run_index, horizon, total_reward, average_reward, max_reward,
		 regret, best_arm, optimal_rate, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, time.Now().Unix(), rec.Experiment, string(rec.Policy.Type),
		rec.Policy.Epsilon, rec.Policy.Temperature, rec.Policy.N,
		int64(rec.Seed), rec.RunIndex, sum.Horizon, sum.TotalReward, sum.AverageReward,
		sum.MaxReward, sum.Regret, sum.BestArm, sum.OptimalRate, rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, a := range sum.Arms {
		if _, err := tx.Exec(`INSERT INTO arm_estimates
			(run_id, arm, probability, pulls, estimate) VALUES (?,?,?,?,?)`,
			rec.RunID, a.Arm, a.Probability, a.Pulls, a.Estimate,
		); err != nil {
			return fmt.Errorf("insert arm estimate: %w", err)
		}
	}

	if len(rec.Curve) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO reward_curves
			(run_id, round, cumulative_reward) VALUES (?,?,?)`)
		if err != nil {
			return fmt.Errorf("prepare curve insert: %w", err)
		}
		defer stmt.Close()
		for _, p := range rec.Curve {
			if _, err := stmt.Exec(rec.RunID, p.Round, p.CumulativeReward); err != nil {
				return fmt.Errorf("insert curve point: %w", err)
			}
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs of an experiment, newest first.
func (r *SQLiteRecorder) RecentRuns(experiment string, limit int) ([]RunRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT run_id, experiment, policy, run_index, horizon,
			total_reward, regret, optimal_rate, timestamp
		FROM runs WHERE experiment = ?
		ORDER BY timestamp DESC, run_index DESC LIMIT ?`, experiment, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var row RunRow
		var ts int64
		if err := rows.Scan(&row.RunID, &row.Experiment, &row.Policy, &row.RunIndex, &row.Horizon,
			&row.TotalReward, &row.Regret, &row.OptimalRate, &ts); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		row.RecordedAt = time.Unix(ts, 0)
		out = append(out, row)
	}
	return out, rows.Err()
}

// CurvePointCount returns how many curve samples are stored for a run.
func (r *SQLiteRecorder) CurvePointCount(runID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM reward_curves WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
