package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ReportsSubmittedTotal counts accepted reports by category.
	ReportsSubmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecoreport",
		Subsystem: "server",
		Name:      "reports_submitted_total",
		Help:      "Total number of accepted incident reports, labeled by category.",
	}, []string{"category"})

	// ReportsRejectedTotal counts submissions that failed validation.
	ReportsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecoreport",
		Subsystem: "server",
		Name:      "reports_rejected_total",
		Help:      "Total number of report submissions rejected by validation.",
	})

	// ExportsTotal counts workbook downloads by format.
	ExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecoreport",
		Subsystem: "server",
		Name:      "exports_total",
		Help:      "Total number of Excel exports served, labeled by workbook format.",
	}, []string{"format"})

	// TranslationsTotal counts translation requests by result.
	TranslationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecoreport",
		Subsystem: "server",
		Name:      "translations_total",
		Help:      "Total number of translation requests, labeled by result (ok or fallback).",
	}, []string{"result"})

	// ConnectedClients is the number of WebSocket listeners currently attached.
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ecoreport",
		Subsystem: "server",
		Name:      "websocket_connected_clients",
		Help:      "Current number of connected WebSocket report listeners.",
	})
)

// Register registers server metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ReportsSubmittedTotal,
			ReportsRejectedTotal,
			ExportsTotal,
			TranslationsTotal,
			ConnectedClients,
		)
	})
}
