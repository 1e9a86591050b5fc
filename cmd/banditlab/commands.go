package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"BanditLab/internal/arm"
	"BanditLab/internal/policy"
	"BanditLab/internal/recorder"
	"BanditLab/internal/report"
	"BanditLab/internal/runner"
	"BanditLab/internal/scheduler"
	"BanditLab/internal/simulator"
	"BanditLab/internal/stats"

	"github.com/spf13/cobra"
)

var (
	configPath string

	simPolicy      string
	simEpsilon     float64
	simTemperature float64
	simArms        []float64
	simHorizon     int
	simSeed        uint64

	historyExperiment string
	historyLimit      int

	rootCmd = &cobra.Command{
		Use:          "banditlab",
		Short:        "Multi-armed bandit policy simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run every configured experiment once and write the reports",
		RunE:  runSuite,
	}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Run a single ad-hoc simulation and print its summary",
		RunE:  runSimulate,
	}

	scheduleCmd = &cobra.Command{
		Use:   "schedule",
		Short: "Re-run the experiment suite on the configured cron schedule",
		RunE:  runSchedule,
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "List recently recorded runs of an experiment",
		RunE:  runHistory,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default configs/config.yaml or $CONFIG_PATH)")

	simulateCmd.Flags().StringVar(&simPolicy, "policy", string(policy.TypeUCB1), "epsilon_greedy, softmax, annealing_softmax or ucb1")
	simulateCmd.Flags().Float64Var(&simEpsilon, "epsilon", 0.1, "exploration probability for epsilon_greedy")
	simulateCmd.Flags().Float64Var(&simTemperature, "temperature", 0.1, "temperature for softmax")
	simulateCmd.Flags().Float64SliceVar(&simArms, "arms", []float64{0.1, 0.1, 0.1, 0.1, 0.9}, "Bernoulli success probabilities")
	simulateCmd.Flags().IntVar(&simHorizon, "horizon", 1000, "number of rounds")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 1, "random seed")

	historyCmd.Flags().StringVar(&historyExperiment, "experiment", "", "experiment name")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum rows")
	_ = historyCmd.MarkFlagRequired("experiment")

	rootCmd.AddCommand(runCmd, simulateCmd, scheduleCmd, historyCmd)
}

func runSuite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rec := openRecorder(cfg.Database.SQLitePath)
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.NewRunner(cfg.Seed, cfg.Workers, rec)
	s := scheduler.NewScheduler(ctx, r, cfg.Experiments, cfg.Output.ChartPath, cfg.Output.JSONPath)
	reports, err := s.RunNow()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, rep := range reports {
		fmt.Fprintln(out, report.FormatExperiment(rep))
	}
	fmt.Fprint(out, report.FormatSuite(reports))
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	t, err := policy.ParseType(simPolicy)
	if err != nil {
		return err
	}
	cfg := policy.Config{Type: t, N: len(simArms), Epsilon: simEpsilon, Temperature: simTemperature}
	if err := cfg.Validate(); err != nil {
		return err
	}

	src := stats.NewSource(simSeed, 0)
	arms, err := arm.NewBernoulliArms(simArms, src)
	if err != nil {
		return err
	}
	res, err := simulator.Simulate(cfg, arms, simHorizon, src)
	if err != nil {
		return err
	}
	sum, err := simulator.Summarize(res, simArms)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, report.FormatRun(cfg.String(), sum))
	if eg, ok := res.Policy.(*policy.EpsilonGreedy); ok {
		fmt.Fprintf(out, "\nexploited %d of %d rounds\n", eg.Exploits(), simHorizon)
	}
	return nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Schedule.Cron == "" {
		return fmt.Errorf("schedule.cron is not configured")
	}
	rec := openRecorder(cfg.Database.SQLitePath)
	defer rec.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := runner.NewRunner(cfg.Seed, cfg.Workers, rec)
	sched := scheduler.NewScheduler(ctx, r, cfg.Experiments, cfg.Output.ChartPath, cfg.Output.JSONPath)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, running suite now")
		sched.RunInBackground()
	}

	log.Printf("[INFO] BanditLab scheduled with %q. Press Ctrl+C to stop.", cfg.Schedule.Cron)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	// waits for an in-flight batch before the deferred recorder close
	sched.Stop()
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.Database.SQLitePath); err != nil {
		return fmt.Errorf("no run database at %s", filepath.Clean(cfg.Database.SQLitePath))
	}
	rec := openRecorder(cfg.Database.SQLitePath)
	defer rec.Close()

	rows, err := rec.RecentRuns(historyExperiment, historyLimit)
	if err != nil {
		return err
	}
	printHistory(cmd, rows)
	return nil
}

func printHistory(cmd *cobra.Command, rows []recorder.RunRow) {
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintf(out, "no runs recorded for %q\n", historyExperiment)
		return
	}
	fmt.Fprintln(out, "recorded             run  policy              reward    regret  optimal  id")
	for _, row := range rows {
		fmt.Fprintf(out, "%s  %4d  %-18s %8.1f  %8.1f  %6.1f%%  %s\n",
			row.RecordedAt.Format("2006-01-02 15:04:05"), row.RunIndex, row.Policy,
			row.TotalReward, row.Regret, row.OptimalRate*100, row.RunID)
	}
}
