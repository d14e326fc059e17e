package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jfarfanc/ptap_monitor/internal/alerts"
	"github.com/jfarfanc/ptap_monitor/internal/authz"
	"github.com/jfarfanc/ptap_monitor/internal/metrics"
	"github.com/jfarfanc/ptap_monitor/internal/model"
)

const roleHeader = "X-Role"

// Routes builds the gateway mux.
func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/health", a.count("health", a.handleHealth))
	mux.HandleFunc("/api/operational", a.count("operational", a.handleOperational))
	mux.HandleFunc("/api/chemicals", a.count("chemicals", a.handleChemicals))
	mux.HandleFunc("/api/chemicals/consume", a.count("consume", a.handleConsume))
	mux.HandleFunc("/api/chemicals/consumption", a.count("consumption", a.handleConsumption))
	mux.HandleFunc("/api/alerts", a.count("alerts", a.handleAlerts))
	mux.HandleFunc("/api/trends", a.count("trends", a.handleTrends))
	mux.HandleFunc("/api/config", a.count("config", a.handleConfig))
	mux.HandleFunc("/api/history", a.count("history", a.handleHistory))

	return mux
}

func (a *App) count(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestsTotal.WithLabelValues(route).Inc()
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP statuses with one
// human-readable message, FastAPI-style {"detail": ...} body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case model.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrUnknownChemical):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleOperational(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		readings, err := a.store.Operational()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, readings)

	case http.MethodPost:
		var reading model.OperationalReading
		if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
			readingsRejected.Inc()
			writeError(w, &model.ValidationError{Field: "body", Reason: err.Error()})
			return
		}
		if err := reading.Validate(); err != nil {
			readingsRejected.Inc()
			writeError(w, err)
			return
		}
		if err := a.store.AppendOperational(reading); err != nil {
			writeError(w, err)
			return
		}
		readingsAccepted.Inc()
		a.publishReading(reading)
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *App) handleChemicals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, a.tracker.Snapshot())
}

func (a *App) handleConsume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var batch model.ConsumptionBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, &model.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	if err := batch.Validate(); err != nil {
		writeError(w, err)
		return
	}

	entries, err := a.tracker.ApplyConsumption(batch.Fecha, batch.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	// stock first, then ledger: a crash in between loses rows, never stock
	if err := a.store.SaveChemicals(a.tracker.Snapshot()); err != nil {
		writeError(w, err)
		return
	}
	if err := a.store.AppendConsumption(entries); err != nil {
		writeError(w, err)
		return
	}
	consumptionBatches.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (a *App) handleConsumption(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	entries, err := a.store.Consumption()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *App) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	readings, err := a.store.Operational()
	if err != nil {
		writeError(w, err)
		return
	}
	cfg, err := a.store.Config()
	if err != nil {
		writeError(w, err)
		return
	}
	alertEvaluations.Inc()
	writeJSON(w, http.StatusOK, alerts.Evaluate(readings, a.tracker.Snapshot(), cfg))
}

func (a *App) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	readings, err := a.store.Operational()
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := a.store.Consumption()
	if err != nil {
		writeError(w, err)
		return
	}

	slope, increasing := metrics.DPTrend(readings, metrics.DefaultTrendWindow)
	type trendPayload struct {
		Presiones []metrics.PressurePoint  `json:"presiones"`
		Caudales  []metrics.FlowPoint      `json:"caudales"`
		Consumo   metrics.ConsumptionTable `json:"consumo"`
		DPTrend   struct {
			Slope      float64 `json:"slope"`
			Increasing bool    `json:"increasing"`
		} `json:"dp_trend"`
	}
	var payload trendPayload
	payload.Presiones = metrics.PressureSeries(readings)
	payload.Caudales = metrics.FlowSeries(readings)
	payload.Consumo = metrics.ConsumptionSeries(entries)
	payload.DPTrend.Slope = slope
	payload.DPTrend.Increasing = increasing
	writeJSON(w, http.StatusOK, payload)
}

func (a *App) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := a.store.Config()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)

	case http.MethodPost:
		role := model.Role(r.Header.Get(roleHeader))
		if err := authz.RequireConfigMutation(role); err != nil {
			writeError(w, err)
			return
		}
		var payload struct {
			DataDir     string   `json:"data_dir"`
			DPThreshold *float64 `json:"dp_threshold,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, &model.ValidationError{Field: "body", Reason: err.Error()})
			return
		}
		if payload.DataDir == "" {
			writeError(w, &model.ValidationError{Field: "data_dir", Reason: "requerido"})
			return
		}
		cfg, err := a.store.Config()
		if err != nil {
			writeError(w, err)
			return
		}
		cfg.DataDir = payload.DataDir
		if payload.DPThreshold != nil {
			if *payload.DPThreshold <= 0 {
				writeError(w, &model.ValidationError{Field: "dp_threshold", Reason: "debe ser positivo"})
				return
			}
			cfg.DPThreshold = *payload.DPThreshold
		}
		// a new data_dir takes effect on restart; the running store keeps
		// its open directory
		if err := a.store.SaveConfig(cfg); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	days := 30
	if s := r.URL.Query().Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			days = n
		}
	}
	list := a.fetchHistory(r.Context(), days)
	if list == nil {
		list = []model.OperationalReading{}
	}
	writeJSON(w, http.StatusOK, list)
}
