package report

import (
	"fmt"
	"sort"
	"strings"

	"BanditLab/internal/model"
)

// FormatRun formats a single run summary with per-arm estimates.
func FormatRun(label string, s *model.RunSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s | horizon %d\n", label, s.Horizon))
	b.WriteString(fmt.Sprintf("total reward: %.0f (avg %.4f)\n", s.TotalReward, s.AverageReward))
	b.WriteString(fmt.Sprintf("regret: %.1f of max %.1f\n", s.Regret, s.MaxReward))
	b.WriteString(fmt.Sprintf("best arm: %d, chosen %.1f%% of rounds\n\n", s.BestArm, s.OptimalRate*100))

	b.WriteString("  arm      p   pulls  estimate\n")
	for _, a := range s.Arms {
		marker := " "
		if a.Arm == s.BestArm {
			marker = "*"
		}
		b.WriteString(fmt.Sprintf("%s %3d  %.3f  %6d  %.4f\n", marker, a.Arm, a.Probability, a.Pulls, a.Estimate))
	}
	return b.String()
}

// FormatExperiment formats the aggregate of one experiment.
func FormatExperiment(rep *model.ExperimentReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %s | %d runs x %d rounds\n", rep.Name, rep.Policy, rep.Runs, rep.Horizon))
	b.WriteString(fmt.Sprintf("  reward: %.1f ± %.1f\n", rep.MeanTotalReward, rep.StdDevTotalReward))
	b.WriteString(fmt.Sprintf("  regret: %.1f\n", rep.MeanRegret))
	b.WriteString(fmt.Sprintf("  optimal arm rate: %.1f%%\n", rep.MeanOptimalRate*100))
	if rep.Horizon > 0 {
		shares := make([]string, len(rep.MeanArmPulls))
		for i, p := range rep.MeanArmPulls {
			shares[i] = fmt.Sprintf("%.1f%%", p/float64(rep.Horizon)*100)
		}
		b.WriteString(fmt.Sprintf("  pull share: [%s]\n", strings.Join(shares, " ")))
	}
	return b.String()
}

// FormatSuite formats a ranking of experiments by mean total reward.
func FormatSuite(reports []*model.ExperimentReport) string {
	ranked := make([]*model.ExperimentReport, len(reports))
	copy(ranked, reports)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanTotalReward > ranked[j].MeanTotalReward
	})

	var b strings.Builder
	b.WriteString("rank  experiment                 reward      regret   optimal\n")
	for i, r := range ranked {
		b.WriteString(fmt.Sprintf("%4d  %-24s %9.1f  %9.1f  %7.1f%%\n",
			i+1, r.Name, r.MeanTotalReward, r.MeanRegret, r.MeanOptimalRate*100))
	}
	return b.String()
}
