package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"BanditLab/internal/config"
	"BanditLab/internal/model"
	"BanditLab/internal/report"
	"BanditLab/internal/runner"

	"github.com/robfig/cron/v3"
)

// Scheduler re-runs the experiment suite on a cron schedule and publishes
// each batch to the configured outputs.
type Scheduler struct {
	Cron        *cron.Cron
	Runner      *runner.Runner
	Experiments []config.Experiment
	ChartPath   string
	JSONPath    string
	Ctx         context.Context

	background sync.WaitGroup
}

// NewScheduler creates a new Scheduler. Empty output paths skip that output.
func NewScheduler(ctx context.Context, r *runner.Runner, exps []config.Experiment, chartPath, jsonPath string) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Runner:      r,
		Experiments: exps,
		ChartPath:   chartPath,
		JSONPath:    jsonPath,
		Ctx:         ctx,
	}
}

// Register adds the suite job under a six-field cron expression.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.suiteTask); err != nil {
		return fmt.Errorf("register suite task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running batches, scheduled or
// started with RunInBackground, to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.background.Wait()
	log.Println("[INFO] scheduler stopped")
}

// RunInBackground runs the suite once without blocking. Stop waits for it.
func (s *Scheduler) RunInBackground() {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.suiteTask()
	}()
}

// RunNow executes the suite immediately and returns its reports.
func (s *Scheduler) RunNow() ([]*model.ExperimentReport, error) {
	reports, err := s.Runner.RunSuite(s.Ctx, s.Experiments)
	if err != nil {
		return reports, err
	}
	s.publish(reports)
	return reports, nil
}

func (s *Scheduler) suiteTask() {
	log.Printf("[INFO] running scheduled suite (%d experiments)", len(s.Experiments))
	if _, err := s.RunNow(); err != nil {
		log.Printf("[ERROR] scheduled suite: %v", err)
	}
}

func (s *Scheduler) publish(reports []*model.ExperimentReport) {
	log.Printf("[INFO] suite ranking:\n%s", report.FormatSuite(reports))
	if s.JSONPath != "" {
		if err := report.SaveJSON(s.JSONPath, reports); err != nil {
			log.Printf("[ERROR] save json report: %v", err)
		}
	}
	if s.ChartPath != "" {
		if err := report.RenderChartFile(s.ChartPath, reports); err != nil {
			log.Printf("[ERROR] render chart: %v", err)
		}
	}
}
