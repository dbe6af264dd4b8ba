package stats

import (
	"math"
	"testing"
)

func TestLinearRegressionExactFit(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{1, 3, 5, 7, 9} // y = 2x + 1

	reg := LinearRegression(x, y)
	if math.Abs(reg.Slope-2) > 1e-9 {
		t.Errorf("Slope = %v, want 2", reg.Slope)
	}
	if math.Abs(reg.Intercept-1) > 1e-9 {
		t.Errorf("Intercept = %v, want 1", reg.Intercept)
	}
	if math.Abs(reg.RSquared-1) > 1e-9 {
		t.Errorf("RSquared = %v, want 1", reg.RSquared)
	}
}

func TestLinearRegressionFlatSeries(t *testing.T) {
	reg := LinearRegression([]float64{0, 1, 2}, []float64{5, 5, 5})
	if reg.Slope != 0 {
		t.Errorf("Slope = %v, want 0", reg.Slope)
	}
	if reg.RSquared != 0 {
		t.Errorf("RSquared = %v, want 0 for zero-variance y", reg.RSquared)
	}
}

func TestLinearRegressionDegenerate(t *testing.T) {
	if reg := LinearRegression([]float64{1}, []float64{2}); reg != (Regression{}) {
		t.Errorf("single point should yield zero fit, got %+v", reg)
	}
	// constant x cannot be fit
	reg := LinearRegression([]float64{3, 3, 3}, []float64{1, 2, 3})
	if reg.Slope != 0 || reg.Intercept != 2 {
		t.Errorf("degenerate x: got %+v, want slope 0 intercept 2", reg)
	}
}

func TestSlopeOverIndex(t *testing.T) {
	reg := SlopeOverIndex([]float64{5, 4, 3, 2, 1})
	if math.Abs(reg.Slope+1) > 1e-9 {
		t.Errorf("Slope = %v, want -1", reg.Slope)
	}
}
