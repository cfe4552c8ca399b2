package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics коллектор метрик сервиса
// Методы безопасно вызывать на nil (метрики выключены)
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec
	DBQueryDuration    *prometheus.HistogramVec

	// Доменные метрики
	AppointmentsCreated    *prometheus.CounterVec
	AppointmentTransitions *prometheus.CounterVec
	CascadeRejections      *prometheus.CounterVec
	CascadeFailures        *prometheus.CounterVec

	serviceName string
}

// New создает коллектор и регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает коллектор с указанным реестром (используется в тестах)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBOpenConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established database connections",
		}, []string{"service"}),

		DBInUseConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of database connections currently in use",
		}, []string{"service"}),

		DBIdleConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle database connections",
		}, []string{"service"}),

		DBWaitCount: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),

		AppointmentsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_created_total",
			Help: "Total number of created appointments",
		}, []string{"service"}),

		AppointmentTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "appointment_transitions_total",
			Help: "Applied appointment status transitions",
		}, []string{"service", "from", "to"}),

		CascadeRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cascade_rejections_total",
			Help: "Appointments rejected by the accept cascade",
		}, []string{"service"}),

		CascadeFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cascade_failures_total",
			Help: "Accept cascade rejections that could not be persisted",
		}, []string{"service"}),
	}
}

// ServiceName возвращает имя сервиса, используемое в лейблах
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
}

// ObservePoolStats записывает статистику пула соединений
func (m *Metrics) ObservePoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(stats.OpenConnections))
	m.DBInUseConnections.WithLabelValues(m.serviceName).Set(float64(stats.InUse))
	m.DBIdleConnections.WithLabelValues(m.serviceName).Set(float64(stats.Idle))
	m.DBWaitCount.WithLabelValues(m.serviceName).Set(float64(stats.WaitCount))
}

// AppointmentCreated увеличивает счетчик созданных записей
func (m *Metrics) AppointmentCreated() {
	if m == nil {
		return
	}
	m.AppointmentsCreated.WithLabelValues(m.serviceName).Inc()
}

// TransitionApplied учитывает смену статуса записи
func (m *Metrics) TransitionApplied(from, to string) {
	if m == nil {
		return
	}
	m.AppointmentTransitions.WithLabelValues(m.serviceName, from, to).Inc()
}

// CascadeResolved учитывает результат каскадного отклонения
func (m *Metrics) CascadeResolved(rejected, failed int) {
	if m == nil {
		return
	}
	if rejected > 0 {
		m.CascadeRejections.WithLabelValues(m.serviceName).Add(float64(rejected))
	}
	if failed > 0 {
		m.CascadeFailures.WithLabelValues(m.serviceName).Add(float64(failed))
	}
}
