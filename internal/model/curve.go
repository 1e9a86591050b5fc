package model

// CurvePoint samples a cumulative reward series.
type CurvePoint struct {
	Round            int     `json:"round"` // 1-based
	CumulativeReward float64 `json:"cumulative_reward"`
}

// Downsample keeps roughly points evenly spaced samples of a cumulative
// series, always including the final round.
func Downsample(cumulative []float64, points int) []CurvePoint {
	n := len(cumulative)
	if n == 0 || points <= 0 {
		return nil
	}
	step := n / points
	if step < 1 {
		step = 1
	}
	out := make([]CurvePoint, 0, n/step+1)
	for i := step - 1; i < n; i += step {
		out = append(out, CurvePoint{Round: i + 1, CumulativeReward: cumulative[i]})
	}
	if out[len(out)-1].Round != n {
		out = append(out, CurvePoint{Round: n, CumulativeReward: cumulative[n-1]})
	}
	return out
}
