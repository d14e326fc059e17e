// A stand-in for the plant datalogger: publishes one synthetic daily reading
// per interval on the operational topic, compressing simulated days into
// wall-clock seconds so the whole pipeline can be watched end to end.
package datalogger_simulator

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jfarfanc/ptap_monitor/pkg/mqttbus"
)

type Simulator struct {
	generator *DataGenerator
	publisher mqttbus.IPublisher
}

func NewSimulator(publisher mqttbus.IPublisher, gen *DataGenerator) *Simulator {
	return &Simulator{generator: gen, publisher: publisher}
}

// Start publishes until ctx closes.
func (s *Simulator) Start(ctx context.Context, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-time.After(interval):
			r := s.generator.Next()
			log.Printf("datalogger: pub fecha=%s p_in=%.1f p_out=%.1f dp=%.2f",
				r.Fecha, r.Presiones.Entrada, r.Presiones.Salida, r.DeltaP())
			payload, _ := json.Marshal(r)
			if err := s.publisher.PublishMessage(payload); err != nil {
				log.Printf("datalogger: publish error: %v", err)
			}
		}
	}
}
