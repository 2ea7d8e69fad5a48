package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VentasRegistradasTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_ventas_registradas_total",
		Help: "Total number of posted sales",
	})

	VentasAnuladasTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_ventas_anuladas_total",
		Help: "Total number of voided sales",
	})

	VentasRechazadasTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_ventas_rechazadas_total",
		Help: "Total number of rejected sale attempts",
	}, []string{"motivo"})

	MovimientosCajaTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_movimientos_caja_total",
		Help: "Total number of manual cash ledger entries",
	}, []string{"tipo"})

	CierresCajaTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_cierres_caja_total",
		Help: "Total number of cash session closings",
	}, []string{"clasificacion"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
