package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); !almostEqual(got, 2.5) {
		t.Errorf("Mean = %v, want 2.5", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean of empty = %v, want 0", got)
	}
}

func TestVarianceAndStdDev(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	if got := Variance(vals); !almostEqual(got, 2.5) {
		t.Errorf("Variance = %v, want 2.5", got)
	}
	if got := StdDev(vals); !almostEqual(got, math.Sqrt(2.5)) {
		t.Errorf("StdDev = %v, want %v", got, math.Sqrt(2.5))
	}
	if got := Variance([]float64{7}); got != 0 {
		t.Errorf("Variance of single value = %v, want 0", got)
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	// mean 4, sample SD 2 -> 50%
	if got := CoefficientOfVariation([]float64{2, 4, 6}); !almostEqual(got, 50) {
		t.Errorf("CoefficientOfVariation = %v, want 50", got)
	}
	if got := CoefficientOfVariation([]float64{0, 0}); got != 0 {
		t.Errorf("CoefficientOfVariation of zero mean = %v, want 0", got)
	}
}

func TestMinMax(t *testing.T) {
	vals := []float64{3, -1, 7, 2}
	if got := Min(vals); got != -1 {
		t.Errorf("Min = %v, want -1", got)
	}
	if got := Max(vals); got != 7 {
		t.Errorf("Max = %v, want 7", got)
	}
	if Min(nil) != 0 || Max(nil) != 0 {
		t.Error("Min/Max of empty should be 0")
	}
}

func TestMeanPointers(t *testing.T) {
	a, b := 2.0, 4.0
	mean, n := MeanPointers([]*float64{&a, nil, &b, nil})
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
	if !almostEqual(mean, 3) {
		t.Errorf("mean = %v, want 3", mean)
	}

	mean, n = MeanPointers([]*float64{nil, nil})
	if n != 0 || mean != 0 {
		t.Errorf("all-nil mean = %v count = %d, want 0, 0", mean, n)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5,0,3) = %v, want 3", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Errorf("Clamp(-1,0,3) = %v, want 0", got)
	}
	if got := Clamp01(0.4); got != 0.4 {
		t.Errorf("Clamp01(0.4) = %v, want 0.4", got)
	}
}

func TestRamp01(t *testing.T) {
	cases := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 0.5},
		{-2, 0, 10, 0},
		{15, 0, 10, 1},
		// inverted ramp: lower values toward 1
		{0.8, 1.2, 0.4, 0.5},
		{1.3, 1.2, 0.4, 0},
		{0.2, 1.2, 0.4, 1},
	}
	for _, c := range cases {
		if got := Ramp01(c.v, c.lo, c.hi); !almostEqual(got, c.want) {
			t.Errorf("Ramp01(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}
