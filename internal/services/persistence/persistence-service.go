// The persistence service mirrors every accepted operational reading into
// InfluxDB so the dashboard can plot long history without touching the local
// JSON store. It consumes readings from MQTT (gateway and dataloggers both
// publish on the operational topic) and keeps an in-process cache as a
// fallback when Influx is unreachable.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/jfarfanc/ptap_monitor/internal/model"
	"github.com/jfarfanc/ptap_monitor/pkg/dedup"
	"github.com/jfarfanc/ptap_monitor/pkg/mqttbus"
)

type InfluxConfig struct {
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
	Measurement  string // es. "ro_operational"
	PlantID      string // tag on every point; single plant for now
}

type Service struct {
	consumer mqttbus.IConsumer[model.OperationalReading]
	influx   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	queryAPI api.QueryAPI
	cfg      InfluxConfig
	deduper  *dedup.Deduper

	mu       sync.RWMutex
	cache    []model.OperationalReading // one per fecha, arrival order
	cacheIdx map[string]int
	lastErr  time.Time
}

func NewService(consumer mqttbus.IConsumer[model.OperationalReading], influx influxdb2.Client, cfg InfluxConfig) (*Service, error) {
	if cfg.InfluxURL == "" || cfg.InfluxOrg == "" || cfg.InfluxBucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	if cfg.Measurement == "" {
		cfg.Measurement = "ro_operational"
	}
	if cfg.PlantID == "" {
		cfg.PlantID = "ptap-01"
	}
	return &Service{
		consumer: consumer,
		influx:   influx,
		writeAPI: influx.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		queryAPI: influx.QueryAPI(cfg.InfluxOrg),
		cfg:      cfg,
		deduper:  dedup.New(2*time.Minute, 10000),
		cacheIdx: make(map[string]int),
		lastErr:  time.Now().Add(-24 * time.Hour),
	}, nil
}

// Start installs the message handler and blocks consuming until ctx closes.
func (s *Service) Start(ctx context.Context) {
	s.consumer.SetHandler(func(topic string, msg mqtt.Message) error {
		// QoS1 redelivery carries the same payload; drop it here
		if !s.deduper.ShouldProcess(dedup.PayloadID(msg.Payload())) {
			return nil
		}

		var r model.OperationalReading
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("persistence: invalid JSON on %s: %v", topic, err)
			return nil // bad payload must not stall the stream
		}
		if err := r.Validate(); err != nil {
			log.Printf("persistence: rejected reading on %s: %v", topic, err)
			return nil
		}

		s.remember(r)

		if err := s.writePoint(ctx, r); err != nil {
			s.markError()
			log.Printf("persistence: write error: %v", err)
			return err
		}
		log.Printf("persistence: wrote %s fecha=%s dp=%.2f",
			s.cfg.Measurement, r.Fecha, r.DeltaP())
		return nil
	})

	s.consumer.ConsumeMessage(ctx)
}

func (s *Service) writePoint(ctx context.Context, r model.OperationalReading) error {
	tags := map[string]string{"plant_id": s.cfg.PlantID}
	// ΔP stays out of the fields on purpose: it is recomputed at read time so
	// a retroactive pressure correction can never leave a stale derivative.
	fields := map[string]interface{}{
		"p_in":   r.Presiones.Entrada,
		"p_out":  r.Presiones.Salida,
		"p_rej":  r.Presiones.Rechazo,
		"f_perm": r.CaudalesGPM.Permeado,
		"f_rej":  r.CaudalesGPM.Rechazo,
		"f_rec":  r.CaudalesGPM.Recirculacion,
	}
	ts, err := time.Parse("2006-01-02", r.Fecha.String())
	if err != nil {
		ts = time.Now()
	}
	point := influxdb2.NewPoint(s.cfg.Measurement, tags, fields, ts)
	return s.writeAPI.WritePoint(ctx, point)
}

// remember keeps one cached reading per fecha, latest write wins.
func (s *Service) remember(r model.OperationalReading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.Fecha.String()
	if i, ok := s.cacheIdx[key]; ok {
		s.cache[i] = r
		return
	}
	s.cacheIdx[key] = len(s.cache)
	s.cache = append(s.cache, r)
}

// CachedHistory returns a copy of the in-process cache in arrival order.
func (s *Service) CachedHistory() []model.OperationalReading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.OperationalReading, len(s.cache))
	copy(out, s.cache)
	return out
}

func (s *Service) markError() {
	s.mu.Lock()
	s.lastErr = time.Now()
	s.mu.Unlock()
}

// LastErrorAge reports how long the service has gone without a write error.
func (s *Service) LastErrorAge() time.Duration {
	s.mu.RLock()
	t := s.lastErr
	s.mu.RUnlock()
	return time.Since(t)
}
