package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"BanditLab/internal/model"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// RenderChart writes an HTML page with the running average reward of every
// experiment and the share of pulls each arm received.
func RenderChart(w io.Writer, reports []*model.ExperimentReport) error {
	page := components.NewPage()
	page.PageTitle = "BanditLab"
	page.AddCharts(averageRewardLine(reports), pullShareBar(reports))
	return page.Render(w)
}

// RenderChartFile renders the chart page to filePath.
func RenderChartFile(filePath string, reports []*model.ExperimentReport) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer f.Close()
	return RenderChart(f, reports)
}

func averageRewardLine(reports []*model.ExperimentReport) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeInfographic,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Running Average Reward Over Time",
			Subtitle: "mean over runs",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "round", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "average reward"}),
	)
	for _, r := range reports {
		items := make([]opts.LineData, 0, len(r.MeanCurve))
		for _, p := range r.MeanCurve {
			items = append(items, opts.LineData{Value: []interface{}{p.Round, p.CumulativeReward / float64(p.Round)}})
		}
		line.AddSeries(r.Name, items)
	}
	return line
}

func pullShareBar(reports []*model.ExperimentReport) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeInfographic,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Pull Share per Arm",
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "share of rounds"}),
	)

	arms := 0
	for _, r := range reports {
		if len(r.MeanArmPulls) > arms {
			arms = len(r.MeanArmPulls)
		}
	}
	labels := make([]string, arms)
	for i := range labels {
		labels[i] = fmt.Sprintf("arm %d", i)
	}
	bar.SetXAxis(labels)

	for _, r := range reports {
		items := make([]opts.BarData, arms)
		for i := range items {
			share := 0.0
			if i < len(r.MeanArmPulls) && r.Horizon > 0 {
				share = r.MeanArmPulls[i] / float64(r.Horizon)
			}
			items[i] = opts.BarData{Value: share}
		}
		bar.AddSeries(r.Name, items)
	}
	return bar
}
