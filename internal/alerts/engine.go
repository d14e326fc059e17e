// Package alerts evaluates the two plant alert rules over current derived
// state. Evaluation is a pure function: same readings, same chemicals, same
// config in, identical report out. It never fails and persists nothing.
package alerts

import (
	"fmt"
	"math"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

// CriticalStockPct is the low-stock boundary: a chemical alerts when its
// percent remaining drops strictly below this value. Policy constant, only
// the ΔP threshold is operator-configurable.
const CriticalStockPct = 20.0

const deltaPMessage = "ΔP alto: posible ensuciamiento de membranas"

// Evaluate runs both rules. The ΔP rule looks at the most recent reading
// only: operational response is to the current state, not to history. The
// stock rule walks every chemical in inventory order.
func Evaluate(readings []model.OperationalReading, chemicals []model.Chemical, cfg model.AlertConfig) model.AlertReport {
	report := model.AlertReport{
		Stock:  []model.StockAlert{},
		DeltaP: []model.DeltaPAlert{},
	}

	for _, chem := range chemicals {
		if chem.StockInicial <= 0 {
			// no reference quantity, percentage undefined, never alerts
			continue
		}
		percent := chem.Stock / chem.StockInicial * 100
		if percent < CriticalStockPct {
			report.Stock = append(report.Stock, model.StockAlert{
				Nombre:  chem.Nombre,
				Percent: round2(percent),
				Stock:   chem.Stock,
				Mensaje: fmt.Sprintf("Stock bajo: %s", chem.Nombre),
			})
		}
	}

	if len(readings) > 0 {
		last := readings[len(readings)-1]
		// strict >: hitting the threshold exactly does not alert, and a
		// negative ΔP never can
		if dp := last.DeltaP(); dp > cfg.DPThreshold {
			report.DeltaP = append(report.DeltaP, model.DeltaPAlert{
				Fecha:   last.Fecha,
				DeltaP:  round2(dp),
				Mensaje: deltaPMessage,
			})
		}
	}

	return report
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
