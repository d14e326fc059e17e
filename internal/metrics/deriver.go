// Package metrics turns raw daily readings and consumption rows into the
// time-aligned series the dashboard plots. Everything here is a pure
// projection over validated records: nothing is cached, nothing is stored.
package metrics

import (
	"github.com/jfarfanc/ptap_monitor/internal/model"
)

// PressurePoint is one reading date on the pressure trend, ΔP included.
type PressurePoint struct {
	Fecha   model.Date `json:"fecha"`
	Entrada float64    `json:"entrada"`
	Salida  float64    `json:"salida"`
	Rechazo float64    `json:"rechazo"`
	DeltaP  float64    `json:"delta_p"`
}

// FlowPoint is one reading date on the flow trend.
type FlowPoint struct {
	Fecha         model.Date `json:"fecha"`
	Permeado      float64    `json:"permeado"`
	Rechazo       float64    `json:"rechazo"`
	Recirculacion float64    `json:"recirculacion"`
}

// ConsumptionTable is the consumption roll-up: one row per distinct date in
// first-seen order, one column per chemical observed anywhere in the input,
// also in first-seen order. The explicit key slices carry the ordering; the
// map alone would not.
type ConsumptionTable struct {
	Fechas   []model.Date                  `json:"fechas"`
	Quimicos []string                      `json:"quimicos"`
	Filas    map[string]map[string]float64 `json:"filas"` // fecha -> nombre -> consumo
}

// PressureSeries projects the readings onto the pressure trend, preserving
// input order (upstream already appends chronologically).
func PressureSeries(readings []model.OperationalReading) []PressurePoint {
	out := make([]PressurePoint, 0, len(readings))
	for _, r := range readings {
		out = append(out, PressurePoint{
			Fecha:   r.Fecha,
			Entrada: r.Presiones.Entrada,
			Salida:  r.Presiones.Salida,
			Rechazo: r.Presiones.Rechazo,
			DeltaP:  r.DeltaP(),
		})
	}
	return out
}

// FlowSeries projects the readings onto the flow trend, same ordering rule.
func FlowSeries(readings []model.OperationalReading) []FlowPoint {
	out := make([]FlowPoint, 0, len(readings))
	for _, r := range readings {
		out = append(out, FlowPoint{
			Fecha:         r.Fecha,
			Permeado:      r.CaudalesGPM.Permeado,
			Rechazo:       r.CaudalesGPM.Rechazo,
			Recirculacion: r.CaudalesGPM.Recirculacion,
		})
	}
	return out
}

// ConsumptionSeries folds the ledger into the per-date table. Repeated
// (fecha, nombre) entries sum, they never overwrite.
func ConsumptionSeries(entries []model.ConsumptionEntry) ConsumptionTable {
	table := ConsumptionTable{
		Filas: make(map[string]map[string]float64),
	}
	seenChem := make(map[string]bool)
	for _, e := range entries {
		key := e.Fecha.String()
		row, ok := table.Filas[key]
		if !ok {
			row = make(map[string]float64)
			table.Filas[key] = row
			table.Fechas = append(table.Fechas, e.Fecha)
		}
		if !seenChem[e.Nombre] {
			seenChem[e.Nombre] = true
			table.Quimicos = append(table.Quimicos, e.Nombre)
		}
		row[e.Nombre] += e.Consumo
	}
	return table
}
