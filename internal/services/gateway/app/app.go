// The gateway is the single HTTP surface for operators: it validates and
// stores daily readings, applies chemical consumption, recomputes trends and
// alerts on demand, and gates configuration changes by role. Long history is
// proxied from the persistence service behind a circuit breaker.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jfarfanc/ptap_monitor/internal/inventory"
	"github.com/jfarfanc/ptap_monitor/internal/model"
	"github.com/jfarfanc/ptap_monitor/internal/storage"
	"github.com/jfarfanc/ptap_monitor/pkg/mqttbus"
)

type Config struct {
	HistoryBaseURL string // persistence service, empty disables /api/history
	HTTPTimeout    time.Duration

	BreakerFailures   int
	BreakerOpenFor    time.Duration
	BreakerIntervalMs int
}

type App struct {
	cfg       Config
	store     *storage.Store
	tracker   *inventory.Tracker
	publisher mqttbus.IPublisher // optional mirror of accepted readings
	client    *http.Client
	historyCB *gobreaker.CircuitBreaker

	mu              sync.Mutex
	lastGoodHistory []model.OperationalReading
}

func NewApp(cfg Config, store *storage.Store, tracker *inventory.Tracker, publisher mqttbus.IPublisher) *App {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 3 * time.Second
	}
	if cfg.BreakerFailures < 1 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerOpenFor <= 0 {
		cfg.BreakerOpenFor = 10 * time.Second
	}
	fails := cfg.BreakerFailures
	return &App{
		cfg:       cfg,
		store:     store,
		tracker:   tracker,
		publisher: publisher,
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
		historyCB: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "persistence-history",
			Interval: time.Duration(cfg.BreakerIntervalMs) * time.Millisecond,
			Timeout:  cfg.BreakerOpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= uint32(fails)
			},
		}),
	}
}

// fetchHistory calls the persistence service through the breaker, keeping the
// last good answer for when the breaker is open or the upstream misbehaves.
func (a *App) fetchHistory(ctx context.Context, days int) []model.OperationalReading {
	if a.cfg.HistoryBaseURL == "" {
		return nil
	}
	res, err := a.historyCB.Execute(func() (any, error) {
		url := fmt.Sprintf("%s/data/history?days=%d", a.cfg.HistoryBaseURL, days)
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := a.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("history upstream status %d", resp.StatusCode)
		}
		var out []model.OperationalReading
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("history decode: %w", err)
		}
		return out, nil
	})
	if err != nil {
		log.Printf("gateway: history upstream unavailable (cb=%v): %v", a.historyCB.State(), err)
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.lastGoodHistory
	}
	list := res.([]model.OperationalReading)
	a.mu.Lock()
	a.lastGoodHistory = list
	a.mu.Unlock()
	return list
}

// publishReading mirrors an accepted reading onto the operational topic so
// the persistence service writes it to Influx. Mirror failure never fails
// the submission; the local store already has the record.
func (a *App) publishReading(r model.OperationalReading) {
	if a.publisher == nil {
		return
	}
	payload, err := json.Marshal(r)
	if err != nil {
		log.Printf("gateway: marshal reading: %v", err)
		return
	}
	if err := a.publisher.PublishMessage(payload); err != nil {
		log.Printf("gateway: mirror publish failed: %v", err)
	}
}
