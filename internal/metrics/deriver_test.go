package metrics

import (
	"testing"
	"time"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

func day(d int) model.Date {
	return model.NewDate(2024, time.January, d)
}

func reading(d int, pin, pout float64) model.OperationalReading {
	return model.OperationalReading{
		Fecha:     day(d),
		Presiones: model.PressureSet{Entrada: pin, Salida: pout, Rechazo: 30},
		CaudalesGPM: model.FlowSet{
			Permeado: 40, Rechazo: 12, Recirculacion: 6,
		},
	}
}

func TestPressureSeriesDeltaP(t *testing.T) {
	series := PressureSeries([]model.OperationalReading{
		reading(1, 180, 165),
		reading(2, 10, 15), // inlet below outlet: ΔP must come out negative
	})
	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
	if series[0].DeltaP != 15 {
		t.Fatalf("expected ΔP 15, got %v", series[0].DeltaP)
	}
	if series[1].DeltaP != -5 {
		t.Fatalf("expected ΔP -5 (no clamping), got %v", series[1].DeltaP)
	}
}

func TestPressureSeriesPreservesInputOrder(t *testing.T) {
	series := PressureSeries([]model.OperationalReading{
		reading(3, 180, 165),
		reading(1, 181, 165),
		reading(2, 182, 165),
	})
	want := []model.Date{day(3), day(1), day(2)}
	for i, p := range series {
		if !p.Fecha.Equal(want[i]) {
			t.Fatalf("point %d: expected %s, got %s (deriver must not reorder)", i, want[i], p.Fecha)
		}
	}
}

func TestFlowSeries(t *testing.T) {
	r := reading(1, 180, 165)
	r.CaudalesGPM = model.FlowSet{Permeado: 41.5, Rechazo: 13, Recirculacion: 7}
	series := FlowSeries([]model.OperationalReading{r})
	if len(series) != 1 {
		t.Fatalf("expected 1 point, got %d", len(series))
	}
	p := series[0]
	if p.Permeado != 41.5 || p.Rechazo != 13 || p.Recirculacion != 7 {
		t.Fatalf("unexpected flow point: %+v", p)
	}
}

func TestConsumptionSeriesSumsRepeatedEntries(t *testing.T) {
	table := ConsumptionSeries([]model.ConsumptionEntry{
		{Fecha: day(1), Nombre: "cloro", Consumo: 3},
		{Fecha: day(1), Nombre: "cloro", Consumo: 4},
	})
	if got := table.Filas["2024-01-01"]["cloro"]; got != 7 {
		t.Fatalf("expected summed consumption 7, got %v", got)
	}
	if len(table.Fechas) != 1 || len(table.Quimicos) != 1 {
		t.Fatalf("expected one date and one chemical, got %v / %v", table.Fechas, table.Quimicos)
	}
}

func TestConsumptionSeriesFirstSeenOrder(t *testing.T) {
	table := ConsumptionSeries([]model.ConsumptionEntry{
		{Fecha: day(2), Nombre: "hipoclorito", Consumo: 1},
		{Fecha: day(1), Nombre: "antiescalante", Consumo: 2},
		{Fecha: day(2), Nombre: "antiescalante", Consumo: 3},
	})
	if !table.Fechas[0].Equal(day(2)) || !table.Fechas[1].Equal(day(1)) {
		t.Fatalf("dates must keep first-seen order, got %v", table.Fechas)
	}
	if table.Quimicos[0] != "hipoclorito" || table.Quimicos[1] != "antiescalante" {
		t.Fatalf("chemicals must keep first-seen order, got %v", table.Quimicos)
	}
	if got := table.Filas["2024-01-02"]["antiescalante"]; got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if _, ok := table.Filas["2024-01-01"]["hipoclorito"]; ok {
		t.Fatalf("absent (date, chemical) pair must stay absent, not zero-filled")
	}
}

func TestConsumptionSeriesEmpty(t *testing.T) {
	table := ConsumptionSeries(nil)
	if len(table.Fechas) != 0 || len(table.Filas) != 0 {
		t.Fatalf("expected empty table, got %+v", table)
	}
}
