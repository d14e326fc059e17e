package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_http_requests_total",
		Help: "HTTP requests handled by the gateway, by route.",
	}, []string{"route"})

	readingsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_readings_accepted_total",
		Help: "Operational readings accepted and stored.",
	})

	readingsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_readings_rejected_total",
		Help: "Operational readings rejected by validation.",
	})

	consumptionBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_consumption_batches_total",
		Help: "Chemical consumption batches applied.",
	})

	alertEvaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_alert_evaluations_total",
		Help: "On-demand alert evaluations served.",
	})
)
