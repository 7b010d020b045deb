package forecast

import (
	"errors"
	"fmt"
	"math"
)

// holtModel is a fitted additive-trend exponential smoothing model
// (Holt's linear method): a smoothed level plus a smoothed linear
// trend, extrapolated as a straight line.
type holtModel struct {
	alpha, beta  float64
	level, trend float64
}

// fitHolt fits smoothing parameters by grid search over (alpha, beta),
// minimizing the sum of squared one-step-ahead errors. The grid is
// coarse but deterministic, which matters more here than squeezing the
// last percent of fit quality out of a spending curve.
func fitHolt(series []float64) (holtModel, error) {
	if len(series) < 2 {
		return holtModel{}, fmt.Errorf("need at least 2 points, got %d", len(series))
	}
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return holtModel{}, errors.New("series contains non-finite values")
		}
	}

	var best holtModel
	bestSSE := math.Inf(1)
	for a := 0.05; a < 1.0; a += 0.05 {
		for b := 0.05; b < 1.0; b += 0.05 {
			m, sse := runHolt(series, a, b)
			if sse < bestSSE {
				best, bestSSE = m, sse
			}
		}
	}
	if math.IsInf(bestSSE, 1) || math.IsNaN(bestSSE) {
		return holtModel{}, errors.New("no parameterization fit the series")
	}
	return best, nil
}

// runHolt applies Holt's recursions with fixed parameters, returning
// the final state and the sum of squared one-step errors. Level and
// trend are initialized from the first two observations.
func runHolt(series []float64, alpha, beta float64) (holtModel, float64) {
	level := series[0]
	trend := series[1] - series[0]

	sse := 0.0
	for _, y := range series[1:] {
		residual := y - (level + trend)
		sse += residual * residual

		prevLevel := level
		level = alpha*y + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}
	return holtModel{alpha: alpha, beta: beta, level: level, trend: trend}, sse
}

// Forecast extrapolates h steps past the end of the fitted series.
func (m holtModel) Forecast(h int) []float64 {
	out := make([]float64, h)
	for i := range out {
		out[i] = m.level + float64(i+1)*m.trend
	}
	return out
}
