package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestAuthAttemptsCounter(t *testing.T) {
	before := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues(MethodToken, "rejected"))
	AuthAttemptsTotal.WithLabelValues(MethodToken, "rejected").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues(MethodToken, "rejected")))
}

func TestMetricsRegistered(t *testing.T) {
	AuthAttemptsTotal.WithLabelValues(MethodPassword, "success").Inc()
	AuthorizationDenialsTotal.WithLabelValues("admin.reset").Inc()
	TenantResolutionsTotal.WithLabelValues("hit").Inc()
	TenantPoolConstructionsTotal.WithLabelValues("ok").Inc()
	TenantPoolsActive.Set(0)
	RequestDuration.WithLabelValues("test", "200").Observe(0.01)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	expected := map[string]bool{
		"tenantgate_auth_attempts_total":             false,
		"tenantgate_authorization_denials_total":     false,
		"tenantgate_tenant_resolutions_total":        false,
		"tenantgate_tenant_pool_constructions_total": false,
		"tenantgate_tenant_pools_active":             false,
		"tenantgate_request_duration_seconds":        false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		require.True(t, found, "metric %s not registered", name)
	}
}

func TestInstrumentRecordsStatus(t *testing.T) {
	h := Instrument("instrument_test", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	obs, err := RequestDuration.GetMetricWithLabelValues("instrument_test", "418")
	require.NoError(t, err)

	m := &dto.Metric{}
	require.NoError(t, obs.(prometheus.Metric).Write(m))
	require.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
}
