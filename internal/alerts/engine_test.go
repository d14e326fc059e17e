package alerts

import (
	"reflect"
	"testing"
	"time"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

func readingWithDP(day int, dp float64) model.OperationalReading {
	return model.OperationalReading{
		Fecha:     model.NewDate(2024, time.February, day),
		Presiones: model.PressureSet{Entrada: 100 + dp, Salida: 100, Rechazo: 30},
	}
}

func cfg(threshold float64) model.AlertConfig {
	return model.AlertConfig{DPThreshold: threshold, DataDir: "/tmp/ptap"}
}

func TestDeltaPAlertStrictThreshold(t *testing.T) {
	cases := []struct {
		dp    float64
		fires bool
	}{
		{14, false},
		{15, false}, // exact threshold: no alert
		{16, true},
		{-5, false}, // negative ΔP never alerts
	}
	for _, tc := range cases {
		report := Evaluate([]model.OperationalReading{readingWithDP(1, tc.dp)}, nil, cfg(15))
		if fired := len(report.DeltaP) == 1; fired != tc.fires {
			t.Fatalf("dp=%v: expected fires=%v, got report %+v", tc.dp, tc.fires, report.DeltaP)
		}
		if tc.fires && report.DeltaP[0].DeltaP != tc.dp {
			t.Fatalf("alert must carry ΔP value, got %+v", report.DeltaP[0])
		}
	}
}

func TestDeltaPAlertUsesLatestReadingOnly(t *testing.T) {
	readings := []model.OperationalReading{
		readingWithDP(1, 40), // old breach
		readingWithDP(2, 5),  // current state is fine
	}
	report := Evaluate(readings, nil, cfg(15))
	if len(report.DeltaP) != 0 {
		t.Fatalf("only the most recent reading counts, got %+v", report.DeltaP)
	}
}

func TestStockAlertBoundary(t *testing.T) {
	chems := []model.Chemical{
		{Nombre: "en-limite", StockInicial: 100, Stock: 20}, // exactly 20%: excluded
		{Nombre: "bajo", StockInicial: 100, Stock: 19},
	}
	report := Evaluate(nil, chems, cfg(15))
	if len(report.Stock) != 1 {
		t.Fatalf("expected one stock alert, got %+v", report.Stock)
	}
	a := report.Stock[0]
	if a.Nombre != "bajo" || a.Percent != 19 {
		t.Fatalf("unexpected alert %+v", a)
	}
}

func TestStockAlertZeroInitialNeverFires(t *testing.T) {
	chems := []model.Chemical{
		{Nombre: "sin-referencia", StockInicial: 0, Stock: 0},
	}
	if report := Evaluate(nil, chems, cfg(15)); len(report.Stock) != 0 {
		t.Fatalf("zero initial stock must never alert, got %+v", report.Stock)
	}
}

func TestStockAlertsKeepInventoryOrder(t *testing.T) {
	chems := []model.Chemical{
		{Nombre: "b", StockInicial: 100, Stock: 1},
		{Nombre: "a", StockInicial: 100, Stock: 2},
	}
	report := Evaluate(nil, chems, cfg(15))
	if len(report.Stock) != 2 || report.Stock[0].Nombre != "b" || report.Stock[1].Nombre != "a" {
		t.Fatalf("insertion order lost: %+v", report.Stock)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	readings := []model.OperationalReading{readingWithDP(1, 30)}
	chems := []model.Chemical{{Nombre: "cloro", StockInicial: 100, Stock: 10}}
	first := Evaluate(readings, chems, cfg(15))
	second := Evaluate(readings, chems, cfg(15))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same state must yield identical reports:\n%+v\n%+v", first, second)
	}
}

func TestEvaluateEmptyState(t *testing.T) {
	report := Evaluate(nil, nil, cfg(15))
	if report.Stock == nil || report.DeltaP == nil {
		t.Fatalf("report slices must be non-nil for JSON parity, got %+v", report)
	}
	if len(report.Stock) != 0 || len(report.DeltaP) != 0 {
		t.Fatalf("empty state must yield empty report, got %+v", report)
	}
}
