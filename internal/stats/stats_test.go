package stats

import (
	"math"
	"testing"
)

func TestRunningMean_MatchesArithmeticMean(t *testing.T) {
	rewards := []float64{1, 0, 0, 1, 1, 0, 1}
	mean := 0.0
	sum := 0.0
	for i, r := range rewards {
		mean = RunningMean(mean, i+1, r)
		sum += r
		want := sum / float64(i+1)
		if math.Abs(mean-want) > 1e-12 {
			t.Fatalf("after %d rewards: expected %.6f, got %.6f", i+1, want, mean)
		}
	}
}

func TestSumInts(t *testing.T) {
	tests := []struct {
		in  []int
		out int
	}{
		{[]int{1, 2, 3, 4, 5}, 15},
		{[]int{-2, -1, 0, 1, 2}, 0},
		{[]int{10, 1, 20, 2, 30}, 63},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := SumInts(tt.in); got != tt.out {
			t.Errorf("SumInts(%v): expected %d, got %d", tt.in, tt.out, got)
		}
	}
}

func TestArgmax_FirstIndexOnTies(t *testing.T) {
	tests := []struct {
		in  []float64
		out int
	}{
		{[]float64{-100, -50, 0, 50, 100}, 4},
		{[]float64{1, 0}, 0},
		{[]float64{1000, 1000}, 0},
		{[]float64{0, 0.5, 0.5, 0.2}, 1},
		{[]float64{-100, -1000}, 0},
	}
	for _, tt := range tests {
		got, err := Argmax(tt.in)
		if err != nil {
			t.Fatalf("Argmax(%v): %v", tt.in, err)
		}
		if got != tt.out {
			t.Errorf("Argmax(%v): expected %d, got %d", tt.in, tt.out, got)
		}
	}
	if _, err := Argmax(nil); err == nil {
		t.Error("expected error for empty slice")
	}
}

func TestCategoricalIndex_CumulativeThreshold(t *testing.T) {
	probs := []float64{0.2, 0.3, 0.5}
	tests := []struct {
		z   float64
		out int
	}{
		{0.0, 0},
		{0.19, 0},
		{0.2, 1},
		{0.45, 1},
		{0.55, 2},
		{0.999, 2},
		{1.5, 2}, // cumulative sum never exceeds z: last index
	}
	for _, tt := range tests {
		if got := CategoricalIndex(probs, tt.z); got != tt.out {
			t.Errorf("z=%.3f: expected %d, got %d", tt.z, tt.out, got)
		}
	}
}

func TestSoftmax_SumsToOne(t *testing.T) {
	tests := []struct {
		values      []float64
		temperature float64
	}{
		{[]float64{0, 0, 0}, 1},
		{[]float64{0.1, 0.5, 0.9}, 0.1},
		{[]float64{1, 0}, 1e-6},
		{[]float64{1000, 999, -1000}, 0.01},
		{[]float64{1, 0}, 1e-310},
		{[]float64{0, 1, 1}, math.SmallestNonzeroFloat64},
		{[]float64{0.3}, 5},
	}
	for _, tt := range tests {
		probs, err := Softmax(tt.values, tt.temperature)
		if err != nil {
			t.Fatalf("Softmax(%v, %g): %v", tt.values, tt.temperature, err)
		}
		sum := 0.0
		for _, p := range probs {
			if math.IsNaN(p) || p < 0 {
				t.Fatalf("Softmax(%v, %g): invalid probability %v", tt.values, tt.temperature, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Softmax(%v, %g): probabilities sum to %.12f", tt.values, tt.temperature, sum)
		}
	}
}

func TestSoftmax_TemperatureExtremes(t *testing.T) {
	cold, err := Softmax([]float64{0.2, 0.8}, 1e-4)
	if err != nil {
		t.Fatal(err)
	}
	if cold[1] < 0.999 {
		t.Errorf("low temperature should be near greedy, got %v", cold)
	}

	hot, err := Softmax([]float64{0.2, 0.8}, 1e6)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(hot[0]-0.5) > 1e-3 {
		t.Errorf("high temperature should be near uniform, got %v", hot)
	}
}

func TestSoftmax_SubnormalTemperatureIsGreedy(t *testing.T) {
	probs, err := Softmax([]float64{1, 0}, 1e-310)
	if err != nil {
		t.Fatal(err)
	}
	if probs[0] != 1 || probs[1] != 0 {
		t.Errorf("expected [1 0], got %v", probs)
	}
	if got := Categorical(probs, NewSource(3, 0)); got != 0 {
		t.Errorf("expected arm 0, got %d", got)
	}
}

func TestSoftmax_RejectsBadInput(t *testing.T) {
	if _, err := Softmax(nil, 1); err == nil {
		t.Error("expected error for empty values")
	}
	for _, temp := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Softmax([]float64{1}, temp); err == nil {
			t.Errorf("expected error for temperature %v", temp)
		}
	}
}

func TestNewSource_Deterministic(t *testing.T) {
	a := NewSource(42, 0)
	b := NewSource(42, 0)
	c := NewSource(42, 1)
	same := true
	for i := 0; i < 100; i++ {
		x, y, z := a.Float64(), b.Float64(), c.Float64()
		if x != y {
			t.Fatalf("draw %d: same seed and stream diverged", i)
		}
		if x != z {
			same = false
		}
	}
	if same {
		t.Error("different streams produced identical sequences")
	}
}
