// Package metrics holds the Prometheus collectors for the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Auth methods.
const (
	MethodPassword = "password"
	MethodToken    = "token"
)

var (
	// AuthAttemptsTotal counts authentication outcomes by method.
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantgate_auth_attempts_total",
			Help: "Authentication attempts",
		},
		[]string{"method", "outcome"},
	)

	// AuthorizationDenialsTotal counts requests refused by the authorization gate.
	AuthorizationDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantgate_authorization_denials_total",
			Help: "Authorization denials",
		},
		[]string{"operation"},
	)

	// TenantResolutionsTotal counts tenant resolutions by outcome
	// (hit, built, unknown, error).
	TenantResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantgate_tenant_resolutions_total",
			Help: "Tenant resolutions",
		},
		[]string{"outcome"},
	)

	// TenantPoolConstructionsTotal counts connection pool constructions.
	TenantPoolConstructionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantgate_tenant_pool_constructions_total",
			Help: "Tenant pool constructions",
		},
		[]string{"outcome"},
	)

	// TenantPoolsActive tracks pools currently held by the connection cache.
	TenantPoolsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tenantgate_tenant_pools_active",
			Help: "Active tenant pools",
		},
	)

	// RequestDuration records HTTP request latency by route and status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tenantgate_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		AuthAttemptsTotal,
		AuthorizationDenialsTotal,
		TenantResolutionsTotal,
		TenantPoolConstructionsTotal,
		TenantPoolsActive,
		RequestDuration,
	)
}

// Instrument records RequestDuration for h under the given route label.
func Instrument(route string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(sw, r)
		RequestDuration.WithLabelValues(route, strconv.Itoa(sw.status)).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
