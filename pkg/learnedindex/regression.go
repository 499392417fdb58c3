// pkg/learnedindex/regression.go
package learnedindex

// LinearRegression is a two-parameter model fitted by closed-form ordinary
// least squares.
type LinearRegression struct {
	Slope     float64
	Intercept float64
}

// Fit computes slope and intercept from paired samples. xs and ys must have
// equal length.
func (m *LinearRegression) Fit(xs, ys []float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}

	m.Slope = (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	m.Intercept = (sumY - m.Slope*sumX) / n
}

// Predict evaluates the fitted line at x.
func (m *LinearRegression) Predict(x float64) float64 {
	return m.Slope*x + m.Intercept
}
