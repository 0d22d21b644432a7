package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллекторы Prometheus сервиса.
// nil *Metrics допустим: все методы ничего не делают, если метрики выключены.
type Metrics struct {
	service string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	activeSessions      *prometheus.GaugeVec
	slotFetches         *prometheus.CounterVec
	bookingSubmissions  *prometheus.CounterVec
	backendResults      *prometheus.CounterVec
	reconciliations     *prometheus.CounterVec
	diagnosticsRecorded *prometheus.CounterVec
}

// New создает коллекторы в стандартном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает коллекторы в реестре reg
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		service: serviceName,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		activeSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wizard_active_sessions",
			Help: "Number of live booking wizard sessions",
		}, []string{"service"}),
		slotFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_slot_fetches_total",
			Help: "Available-slot fetches by outcome",
		}, []string{"service", "outcome"}),
		bookingSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_booking_submissions_total",
			Help: "Booking submissions by submission mode",
		}, []string{"service", "mode"}),
		backendResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_booking_backend_results_total",
			Help: "Create-booking round trips by outcome",
		}, []string{"service", "outcome"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_booking_reconciliations_total",
			Help: "Background booking completions by how they were applied",
		}, []string{"service", "result"}),
		diagnosticsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_diagnostics_recorded_total",
			Help: "Swallowed submission failures written to the diagnostics journal",
		}, []string{"service", "status"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.activeSessions,
		m.slotFetches,
		m.bookingSubmissions,
		m.backendResults,
		m.reconciliations,
		m.diagnosticsRecorded,
	)

	return m
}

// ObserveHTTPRequest учитывает обработанный HTTP-запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.service, method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.service, method, route).Observe(duration.Seconds())
}

// SetActiveSessions выставляет число активных сессий
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.WithLabelValues(m.service).Set(float64(n))
}

// ObserveSlotFetch считает загрузки слотов (success, rejected, error)
func (m *Metrics) ObserveSlotFetch(outcome string) {
	if m == nil {
		return
	}
	m.slotFetches.WithLabelValues(m.service, outcome).Inc()
}

// ObserveSubmission считает отправки бронирования в заданном режиме
func (m *Metrics) ObserveSubmission(mode string) {
	if m == nil {
		return
	}
	m.bookingSubmissions.WithLabelValues(m.service, mode).Inc()
}

// ObserveBackendResult считает ответы на создание бронирования (success, rejected, error)
func (m *Metrics) ObserveBackendResult(outcome string) {
	if m == nil {
		return
	}
	m.backendResults.WithLabelValues(m.service, outcome).Inc()
}

// ObserveReconciliation считает фоновые сверки (applied, deferred, stale, failed)
func (m *Metrics) ObserveReconciliation(result string) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(m.service, result).Inc()
}

// ObserveDiagnosticsRecorded считает записи в журнал ошибок
func (m *Metrics) ObserveDiagnosticsRecorded(status string) {
	if m == nil {
		return
	}
	m.diagnosticsRecorded.WithLabelValues(m.service, status).Inc()
}
