package stats

// Regression holds the result of an ordinary-least-squares fit of y against x.
type Regression struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

// LinearRegression fits y = slope*x + intercept by ordinary least squares and
// reports the coefficient of determination. Fewer than two points, or a
// degenerate x, yield a zero fit.
func LinearRegression(x, y []float64) Regression {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 2 {
		return Regression{}
	}

	meanX := Mean(x[:n])
	meanY := Mean(y[:n])

	var sxx, sxy, syy float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}

	if sxx == 0 {
		return Regression{Intercept: meanY}
	}

	slope := sxy / sxx
	reg := Regression{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
	}
	if syy > 0 {
		reg.RSquared = (sxy * sxy) / (sxx * syy)
	}
	return reg
}

// SlopeOverIndex fits a series against its own sample index 0..n-1.
func SlopeOverIndex(y []float64) Regression {
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	return LinearRegression(x, y)
}
