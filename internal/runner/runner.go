package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"BanditLab/internal/arm"
	"BanditLab/internal/config"
	"BanditLab/internal/model"
	"BanditLab/internal/recorder"
	"BanditLab/internal/simulator"
	"BanditLab/internal/stats"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// DefaultCurvePoints is how many samples of each cumulative reward series are kept.
const DefaultCurvePoints = 200

// Runner executes experiments as batches of independent simulation runs.
type Runner struct {
	Seed        uint64
	Workers     int
	CurvePoints int
	Recorder    recorder.Recorder
}

// NewRunner creates a Runner. A nil recorder disables persistence.
func NewRunner(seed uint64, workers int, rec recorder.Recorder) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		Seed:        seed,
		Workers:     workers,
		CurvePoints: DefaultCurvePoints,
		Recorder:    rec,
	}
}

// RunSuite runs experiments one after another.
func (r *Runner) RunSuite(ctx context.Context, exps []config.Experiment) ([]*model.ExperimentReport, error) {
	reports := make([]*model.ExperimentReport, 0, len(exps))
	for _, exp := range exps {
		rep, err := r.RunExperiment(ctx, exp)
		if err != nil {
			return reports, fmt.Errorf("experiment %q: %w", exp.Name, err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// RunExperiment executes exp.Runs runs in parallel. Run i draws from the
// stream (Seed, i), so results do not depend on Workers, and the same run
// index sees the same arm draws in every experiment.
func (r *Runner) RunExperiment(ctx context.Context, exp config.Experiment) (*model.ExperimentReport, error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	log.Printf("[INFO] experiment %s: %d runs of %s, horizon %d", exp.Name, exp.Runs, exp.PolicyConfig(), exp.Horizon)
	start := time.Now()

	outcomes := make([]model.RunOutcome, exp.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)
	for i := 0; i < exp.Runs; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := r.runOnce(exp, i)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			outcomes[i] = *out
			if err := r.Recorder.RecordRun(&recorder.RunRecord{
				RunID:      out.RunID,
				Experiment: exp.Name,
				Policy:     exp.PolicyConfig(),
				Seed:       r.Seed,
				RunIndex:   i,
				Summary:    out.Summary,
				Curve:      out.Curve,
				Duration:   out.Duration,
			}); err != nil {
				log.Printf("[ERROR] record run %s: %v", out.RunID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := aggregate(exp, outcomes)
	log.Printf("[INFO] experiment %s finished in %s: mean reward %.1f, mean regret %.1f",
		exp.Name, time.Since(start).Round(time.Millisecond), rep.MeanTotalReward, rep.MeanRegret)
	return rep, nil
}

func (r *Runner) runOnce(exp config.Experiment, index int) (*model.RunOutcome, error) {
	start := time.Now()
	src := stats.NewSource(r.Seed, uint64(index))
	arms, err := arm.NewBernoulliArms(exp.Arms, src)
	if err != nil {
		return nil, err
	}
	res, err := simulator.Simulate(exp.PolicyConfig(), arms, exp.Horizon, src)
	if err != nil {
		return nil, err
	}
	sum, err := simulator.Summarize(res, exp.Arms)
	if err != nil {
		return nil, err
	}
	return &model.RunOutcome{
		RunID:    uuid.NewString(),
		RunIndex: index,
		Summary:  sum,
		Curve:    model.Downsample(res.CumulativeRewards(), r.CurvePoints),
		Duration: time.Since(start),
	}, nil
}

func aggregate(exp config.Experiment, outcomes []model.RunOutcome) *model.ExperimentReport {
	rep := &model.ExperimentReport{
		Name:         exp.Name,
		Policy:       exp.PolicyConfig().String(),
		Arms:         append([]float64(nil), exp.Arms...),
		Horizon:      exp.Horizon,
		Runs:         len(outcomes),
		MeanArmPulls: make([]float64, len(exp.Arms)),
		Outcomes:     outcomes,
		FinishedAt:   time.Now(),
	}

	totals := make([]float64, len(outcomes))
	regrets := make([]float64, len(outcomes))
	rates := make([]float64, len(outcomes))
	for i, o := range outcomes {
		totals[i] = o.Summary.TotalReward
		regrets[i] = o.Summary.Regret
		rates[i] = o.Summary.OptimalRate
		for _, a := range o.Summary.Arms {
			rep.MeanArmPulls[a.Arm] += float64(a.Pulls) / float64(len(outcomes))
		}
	}
	rep.MeanTotalReward, rep.StdDevTotalReward = stat.MeanStdDev(totals, nil)
	if len(outcomes) == 1 {
		rep.StdDevTotalReward = 0
	}
	rep.MeanRegret = stat.Mean(regrets, nil)
	rep.MeanOptimalRate = stat.Mean(rates, nil)

	curve, err := meanCurve(outcomes)
	if err != nil {
		log.Printf("[WARN] experiment %s: %v", exp.Name, err)
	}
	rep.MeanCurve = curve
	return rep
}

// meanCurve averages the sampled curves point by point. All runs of an
// experiment share a horizon, so their sample rounds line up.
func meanCurve(outcomes []model.RunOutcome) ([]model.CurvePoint, error) {
	if len(outcomes) == 0 || len(outcomes[0].Curve) == 0 {
		return nil, nil
	}
	n := len(outcomes[0].Curve)
	out := make([]model.CurvePoint, n)
	col := make([]float64, len(outcomes))
	for j := 0; j < n; j++ {
		for i, o := range outcomes {
			if len(o.Curve) != n || o.Curve[j].Round != outcomes[0].Curve[j].Round {
				return nil, errors.New("run curves are not aligned")
			}
			col[i] = o.Curve[j].CumulativeReward
		}
		out[j] = model.CurvePoint{Round: outcomes[0].Curve[j].Round, CumulativeReward: stat.Mean(col, nil)}
	}
	return out, nil
}
