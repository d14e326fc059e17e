package storage

import (
	"testing"
	"time"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

func testReading(day int, pin float64) model.OperationalReading {
	return model.OperationalReading{
		Fecha:       model.NewDate(2024, time.May, day),
		Presiones:   model.PressureSet{Entrada: pin, Salida: 160, Rechazo: 55},
		CaudalesGPM: model.FlowSet{Permeado: 40, Rechazo: 12, Recirculacion: 6},
	}
}

func TestOpenSeedsChemicals(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	chems, err := s.Chemicals()
	if err != nil {
		t.Fatalf("chemicals: %v", err)
	}
	if len(chems) != 3 || chems[0].Nombre != "Antiescalante" {
		t.Fatalf("expected seeded inventory, got %+v", chems)
	}
	cfg, err := s.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.DPThreshold != model.DefaultDPThreshold {
		t.Fatalf("expected default threshold, got %v", cfg.DPThreshold)
	}
}

func TestOpenDoesNotReseedExistingFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SaveChemicals([]model.Chemical{{Nombre: "cloro", StockInicial: 10, Stock: 10, Unidad: "L"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	chems, err := reopened.Chemicals()
	if err != nil {
		t.Fatalf("chemicals: %v", err)
	}
	if len(chems) != 1 || chems[0].Nombre != "cloro" {
		t.Fatalf("reopen clobbered the inventory: %+v", chems)
	}
}

func TestAppendOperationalKeepsOrder(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for day := 1; day <= 3; day++ {
		if err := s.AppendOperational(testReading(day, 180)); err != nil {
			t.Fatalf("append day %d: %v", day, err)
		}
	}
	readings, err := s.Operational()
	if err != nil {
		t.Fatalf("operational: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}
	for i, r := range readings {
		if want := model.NewDate(2024, time.May, i+1); !r.Fecha.Equal(want) {
			t.Fatalf("reading %d: expected %s, got %s", i, want, r.Fecha)
		}
	}
}

func TestAppendOperationalSameDateReplaces(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.AppendOperational(testReading(1, 180)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendOperational(testReading(1, 190)); err != nil {
		t.Fatalf("append corrected: %v", err)
	}
	readings, err := s.Operational()
	if err != nil {
		t.Fatalf("operational: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("one reading per date: got %d", len(readings))
	}
	if readings[0].Presiones.Entrada != 190 {
		t.Fatalf("latest write must win, got %v", readings[0].Presiones.Entrada)
	}
}

func TestConsumptionLedgerAppends(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	fecha := model.NewDate(2024, time.May, 2)
	batch1 := []model.ConsumptionEntry{{Fecha: fecha, Nombre: "cloro", Consumo: 3, StockRestante: 97}}
	batch2 := []model.ConsumptionEntry{{Fecha: fecha, Nombre: "cloro", Consumo: 4, StockRestante: 93}}
	if err := s.AppendConsumption(batch1); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendConsumption(batch2); err != nil {
		t.Fatalf("append: %v", err)
	}
	ledger, err := s.Consumption()
	if err != nil {
		t.Fatalf("consumption: %v", err)
	}
	if len(ledger) != 2 {
		t.Fatalf("entries aggregate, never overwrite: got %d rows", len(ledger))
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	want := model.AlertConfig{DPThreshold: 22.5, DataDir: "/srv/ptap"}
	if err := s.SaveConfig(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if got != want {
		t.Fatalf("config round trip: want %+v, got %+v", want, got)
	}
}
