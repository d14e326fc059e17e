package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

// NewHTTPMux exposes the reading history.
//
// GET /data/history
//
//	source=auto|influx|cache  (default auto: try Influx, fall back to cache)
//	days=<int>                (history window for Influx, default 30)
func NewHTTPMux(svc *Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/healthz", newHealthHandler(svc))
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ready": true})
	})

	mux.HandleFunc("/data/history", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		source := strings.ToLower(q.Get("source"))
		if source == "" {
			source = "auto"
		}
		days := 30
		if s := q.Get("days"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				days = n
			}
		}

		var list []model.OperationalReading
		var used string

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if source == "influx" || source == "auto" {
			if got, err := svc.QueryHistory(ctx, days); err == nil && len(got) > 0 {
				list, used = got, "influx"
			}
		}
		if used == "" {
			list, used = svc.CachedHistory(), "cache"
		}
		if list == nil {
			list = []model.OperationalReading{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Data-Source", used)
		_ = json.NewEncoder(w).Encode(list)
	})

	return mux
}

func buildFlux(bucket, measurement string, days int) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dd)
  |> filter(fn: (r) => r._measurement == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> sort(columns: ["_time"])
`, bucket, days, measurement)
}

// QueryHistory reads the stored readings back out of Influx, oldest first.
func (s *Service) QueryHistory(ctx context.Context, days int) ([]model.OperationalReading, error) {
	res, err := s.queryAPI.Query(ctx, buildFlux(s.cfg.InfluxBucket, s.cfg.Measurement, days))
	if err != nil {
		return nil, fmt.Errorf("influx query: %w", err)
	}
	defer func() { _ = res.Close() }()

	num := func(rec map[string]interface{}, key string) float64 {
		switch v := rec[key].(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f
			}
		}
		return 0
	}

	var out []model.OperationalReading
	for res.Next() {
		rec := res.Record()
		values := rec.Values()
		day := rec.Time().UTC()
		out = append(out, model.OperationalReading{
			Fecha: model.NewDate(day.Year(), day.Month(), day.Day()),
			Presiones: model.PressureSet{
				Entrada: num(values, "p_in"),
				Salida:  num(values, "p_out"),
				Rechazo: num(values, "p_rej"),
			},
			CaudalesGPM: model.FlowSet{
				Permeado:      num(values, "f_perm"),
				Rechazo:       num(values, "f_rej"),
				Recirculacion: num(values, "f_rec"),
			},
		})
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("influx iterate: %w", res.Err())
	}
	return out, nil
}
