package metrics

import "github.com/jfarfanc/ptap_monitor/internal/model"

const (
	// DefaultTrendWindow is how many trailing readings feed the slope fit.
	DefaultTrendWindow = 5

	// trendSlopeThreshold: a fitted ΔP slope above this (psi/day) counts as a
	// sustained rise, i.e. fouling building up faster than noise.
	trendSlopeThreshold = 0.05
)

// DPTrend fits a least-squares line through the ΔP of the last window
// readings and reports whether the slope marks a sustained rise. With fewer
// than window readings there is no trend to speak of: (0, false).
func DPTrend(readings []model.OperationalReading, window int) (slope float64, increasing bool) {
	if window <= 1 {
		window = DefaultTrendWindow
	}
	if len(readings) < window {
		return 0, false
	}
	recent := readings[len(readings)-window:]

	// Least squares over x = 0..n-1, y = ΔP.
	n := float64(window)
	var sumX, sumY, sumXY, sumXX float64
	for i, r := range recent {
		x := float64(i)
		y := r.DeltaP()
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, false
	}
	slope = (n*sumXY - sumX*sumY) / denom
	return slope, slope > trendSlopeThreshold
}
