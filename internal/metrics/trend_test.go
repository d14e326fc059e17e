package metrics

import (
	"math"
	"testing"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

func rampReadings(deltas ...float64) []model.OperationalReading {
	out := make([]model.OperationalReading, 0, len(deltas))
	for i, dp := range deltas {
		r := reading(i+1, 100+dp, 100)
		out = append(out, r)
	}
	return out
}

func TestDPTrendLinearRamp(t *testing.T) {
	slope, increasing := DPTrend(rampReadings(1, 2, 3, 4, 5), 5)
	if math.Abs(slope-1.0) > 1e-9 {
		t.Fatalf("expected slope 1.0 on a unit ramp, got %v", slope)
	}
	if !increasing {
		t.Fatalf("unit ramp must register as increasing")
	}
}

func TestDPTrendFlatSeries(t *testing.T) {
	slope, increasing := DPTrend(rampReadings(12, 12, 12, 12, 12), 5)
	if slope != 0 || increasing {
		t.Fatalf("flat ΔP must not trend: slope=%v increasing=%v", slope, increasing)
	}
}

func TestDPTrendTooFewReadings(t *testing.T) {
	slope, increasing := DPTrend(rampReadings(1, 2, 3), 5)
	if slope != 0 || increasing {
		t.Fatalf("below-window input must report no trend, got slope=%v increasing=%v", slope, increasing)
	}
}

func TestDPTrendUsesTrailingWindow(t *testing.T) {
	// early decline, recent rise: only the trailing window should count
	slope, increasing := DPTrend(rampReadings(30, 20, 10, 1, 2, 3, 4, 5), 5)
	if !increasing {
		t.Fatalf("recent rise must dominate, got slope=%v", slope)
	}
}
