package persistence

import (
	"encoding/json"
	"net/http"
	"time"
)

type healthHandler struct {
	svc *Service
}

func newHealthHandler(svc *Service) http.Handler {
	return &healthHandler{svc: svc}
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	type status struct {
		Status          string  `json:"status"`
		InfluxOK        bool    `json:"influx_ok"`
		LastWriteErrorS float64 `json:"last_write_error_age_sec"`
	}
	age := h.svc.LastErrorAge()
	st := status{
		InfluxOK:        h.svc.influx != nil,
		LastWriteErrorS: age.Seconds(),
	}
	switch {
	case st.InfluxOK && age > 30*time.Second:
		st.Status = "ok"
	case st.InfluxOK:
		st.Status = "degraded"
	default:
		st.Status = "down"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}
