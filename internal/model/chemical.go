package model

import "math"

// Chemical is a dosing chemical tracked by the plant. StockInicial is set at
// creation and never changed by consumption; Stock only decreases (restock is
// a manual operation outside this system).
type Chemical struct {
	Nombre       string  `json:"nombre"`
	StockInicial float64 `json:"stock_inicial"`
	Stock        float64 `json:"stock"`
	Unidad       string  `json:"unidad"`
}

// ConsumptionItem is one line of a daily consumption submission.
type ConsumptionItem struct {
	Nombre        string  `json:"nombre"`
	ConsumoDiario float64 `json:"consumo_diario"`
}

// ConsumptionBatch is the daily consumption form: applied atomically, one
// invalid line rejects the whole batch.
type ConsumptionBatch struct {
	Fecha Date              `json:"fecha"`
	Items []ConsumptionItem `json:"items"`
}

func (b ConsumptionBatch) Validate() error {
	if b.Fecha.IsZero() {
		return &ValidationError{Field: "fecha", Reason: "requerida"}
	}
	for _, it := range b.Items {
		if it.Nombre == "" {
			return &ValidationError{Field: "nombre", Reason: "requerido"}
		}
		if math.IsNaN(it.ConsumoDiario) || math.IsInf(it.ConsumoDiario, 0) {
			return &ValidationError{Field: "consumo_diario", Reason: "no numérico"}
		}
		if it.ConsumoDiario < 0 {
			return &ValidationError{Field: "consumo_diario", Reason: "negativo"}
		}
	}
	return nil
}

// ConsumptionEntry is one persisted ledger row. Several entries may share the
// same (fecha, nombre); they aggregate by summation when deriving series.
type ConsumptionEntry struct {
	Fecha         Date    `json:"fecha"`
	Nombre        string  `json:"nombre"`
	Consumo       float64 `json:"consumo"`
	StockRestante float64 `json:"stock_restante"`
}
