package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := NewWithRegisterer("scheduling-service", prometheus.NewRegistry())

	m.AppointmentCreated()
	m.AppointmentCreated()
	m.TransitionApplied("PENDING_APPROVAL", "ACCEPTED")
	m.CascadeResolved(3, 1)
	m.CascadeResolved(0, 0)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.AppointmentsCreated.WithLabelValues("scheduling-service")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.AppointmentTransitions.WithLabelValues("scheduling-service", "PENDING_APPROVAL", "ACCEPTED")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.CascadeRejections.WithLabelValues("scheduling-service")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CascadeFailures.WithLabelValues("scheduling-service")))
}

func TestMetrics_HTTPAndDB(t *testing.T) {
	m := NewWithRegisterer("scheduling-service", prometheus.NewRegistry())

	m.ObserveHTTPRequest("GET", "/api/v1/appointments/{appointmentId}", 404, 10*time.Millisecond)
	m.ObserveDBQuery("appointments.get_by_id", 2*time.Millisecond)
	m.ObservePoolStats(sql.DBStats{OpenConnections: 4, InUse: 1, Idle: 3, WaitCount: 7})

	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("scheduling-service", "GET", "/api/v1/appointments/{appointmentId}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DBQueryDuration))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.DBOpenConnections.WithLabelValues("scheduling-service")))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.DBWaitCount.WithLabelValues("scheduling-service")))
	assert.Equal(t, "scheduling-service", m.ServiceName())
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.AppointmentCreated()
		m.TransitionApplied("ACCEPTED", "IN_PROGRESS")
		m.CascadeResolved(1, 1)
		m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		m.ObserveDBQuery("q", time.Millisecond)
		m.ObservePoolStats(sql.DBStats{})
	})
	assert.Empty(t, m.ServiceName())
}
