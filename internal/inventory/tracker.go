// Package inventory keeps the authoritative chemical stock state. A batch of
// consumption lines is applied as one atomic step: readers never observe a
// half-applied batch, and a batch with one unknown chemical applies nothing.
package inventory

import (
	"fmt"
	"math"
	"sync"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

type Tracker struct {
	mu        sync.Mutex
	chemicals []model.Chemical
	index     map[string]int // nombre -> position in chemicals
}

func NewTracker(chemicals []model.Chemical) *Tracker {
	t := &Tracker{
		chemicals: make([]model.Chemical, len(chemicals)),
		index:     make(map[string]int, len(chemicals)),
	}
	copy(t.chemicals, chemicals)
	for i, c := range t.chemicals {
		t.index[c.Nombre] = i
	}
	return t
}

// ApplyConsumption decrements stock for every line of the batch, clamped at
// zero: operators do report more consumption than remains on the shelf, and
// that is a data-entry reality, not a fault. Validation runs over the whole
// batch before anything mutates; an unknown chemical rejects it all.
// Returns the ledger rows to persist, remaining stock included.
func (t *Tracker) ApplyConsumption(fecha model.Date, items []model.ConsumptionItem) ([]model.ConsumptionEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, it := range items {
		if _, ok := t.index[it.Nombre]; !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownChemical, it.Nombre)
		}
		if math.IsNaN(it.ConsumoDiario) || math.IsInf(it.ConsumoDiario, 0) {
			return nil, &model.ValidationError{Field: "consumo_diario", Reason: "no numérico"}
		}
		if it.ConsumoDiario < 0 {
			return nil, &model.ValidationError{Field: "consumo_diario", Reason: "negativo"}
		}
	}

	entries := make([]model.ConsumptionEntry, 0, len(items))
	for _, it := range items {
		i := t.index[it.Nombre]
		chem := &t.chemicals[i]
		chem.Stock = math.Max(0, chem.Stock-it.ConsumoDiario)
		entries = append(entries, model.ConsumptionEntry{
			Fecha:         fecha,
			Nombre:        chem.Nombre,
			Consumo:       it.ConsumoDiario,
			StockRestante: chem.Stock,
		})
	}
	return entries, nil
}

// PercentRemaining reports stock as a percentage of the initial stock. When
// the initial stock is zero there is no meaningful percentage: the sentinel
// (100, false) keeps such chemicals out of low-stock alerting.
func (t *Tracker) PercentRemaining(nombre string) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[nombre]
	if !ok {
		return 0, false
	}
	chem := t.chemicals[i]
	if chem.StockInicial <= 0 {
		return 100, false
	}
	return chem.Stock / chem.StockInicial * 100, true
}

// Snapshot returns a consistent copy of the inventory for readers.
func (t *Tracker) Snapshot() []model.Chemical {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]model.Chemical, len(t.chemicals))
	copy(out, t.chemicals)
	return out
}
