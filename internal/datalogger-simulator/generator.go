package datalogger_simulator

import (
	"math/rand"
	"time"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

// ====== Tunables ======
const (
	// baseline operating point of the simulated train
	baseInlet  = 180.0 // psi
	baseOutlet = 168.0 // psi
	baseReject = 60.0  // psi

	basePermeate = 42.0 // GPM
	baseRejFlow  = 14.0 // GPM
	baseRecirc   = 8.0  // GPM

	// foulingPerDay: ΔP creep per emitted reading, enough to cross a 15 psi
	// threshold within a few simulated weeks and exercise the alert path.
	foulingPerDay = 0.35
	jitterPct     = 0.03
)

// DataGenerator emits one plausible reading per call, advancing a simulated
// calendar day each time and slowly fouling the membranes.
type DataGenerator struct {
	rng     *rand.Rand
	day     model.Date
	fouling float64
}

func NewDataGenerator(start model.Date, seed int64) *DataGenerator {
	if start.IsZero() {
		now := time.Now().UTC()
		start = model.NewDate(now.Year(), now.Month(), now.Day())
	}
	return &DataGenerator{rng: rand.New(rand.NewSource(seed)), day: start}
}

func (g *DataGenerator) jitter(base float64) float64 {
	return base * (1 + (g.rng.Float64()*2-1)*jitterPct)
}

func (g *DataGenerator) Next() model.OperationalReading {
	r := model.OperationalReading{
		Fecha: g.day,
		Presiones: model.PressureSet{
			Entrada: g.jitter(baseInlet + g.fouling),
			Salida:  g.jitter(baseOutlet),
			Rechazo: g.jitter(baseReject),
		},
		CaudalesGPM: model.FlowSet{
			Permeado:      g.jitter(basePermeate - g.fouling*0.2),
			Rechazo:       g.jitter(baseRejFlow),
			Recirculacion: g.jitter(baseRecirc),
		},
	}
	g.fouling += foulingPerDay
	g.day = nextDay(g.day)
	return r
}

func nextDay(d model.Date) model.Date {
	t, err := time.Parse("2006-01-02", d.String())
	if err != nil {
		return d
	}
	t = t.AddDate(0, 0, 1)
	return model.NewDate(t.Year(), t.Month(), t.Day())
}
