package model

import "math"

// PressureSet holds the three stage pressures of the RO train, in psi.
type PressureSet struct {
	Entrada float64 `json:"entrada"`
	Salida  float64 `json:"salida"`
	Rechazo float64 `json:"rechazo"`
}

// FlowSet holds the three stage flows, in GPM.
type FlowSet struct {
	Permeado      float64 `json:"permeado"`
	Rechazo       float64 `json:"rechazo"`
	Recirculacion float64 `json:"recirculacion"`
}

// OperationalReading is one day of plant telemetry. One reading per date;
// resubmitting the same date replaces the earlier record.
type OperationalReading struct {
	Fecha       Date        `json:"fecha"`
	Presiones   PressureSet `json:"presiones"`
	CaudalesGPM FlowSet     `json:"caudales_gpm"`
}

// DeltaP is inlet minus outlet pressure. Always derived, never stored, and it
// may be negative: that is telemetry worth seeing, not an error.
func (r OperationalReading) DeltaP() float64 {
	return r.Presiones.Entrada - r.Presiones.Salida
}

// Validate checks the reading before it is accepted: date present, every
// numeric field finite and non-negative.
func (r OperationalReading) Validate() error {
	if r.Fecha.IsZero() {
		return &ValidationError{Field: "fecha", Reason: "requerida"}
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"presiones.entrada", r.Presiones.Entrada},
		{"presiones.salida", r.Presiones.Salida},
		{"presiones.rechazo", r.Presiones.Rechazo},
		{"caudales_gpm.permeado", r.CaudalesGPM.Permeado},
		{"caudales_gpm.rechazo", r.CaudalesGPM.Rechazo},
		{"caudales_gpm.recirculacion", r.CaudalesGPM.Recirculacion},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Reason: "no numérico"}
		}
		if f.value < 0 {
			return &ValidationError{Field: f.name, Reason: "negativo"}
		}
	}
	return nil
}
