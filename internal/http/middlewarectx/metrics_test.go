package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-api/internal/metrics"
)

func counter(t *testing.T, sink *metrics.Sink, name string) float64 {
	t.Helper()
	families, err := sink.Gatherer().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func summaryCount(t *testing.T, sink *metrics.Sink, name string) (uint64, float64) {
	t.Helper()
	families, err := sink.Gatherer().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			s := f.GetMetric()[0].GetSummary()
			return s.GetSampleCount(), s.GetSampleSum()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0, 0
}

func newSink() *metrics.Sink {
	return metrics.New(metrics.Options{Application: "user-api", Version: "test", Environment: "test"})
}

func TestMetricsMiddleware_Statuses(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantSuccess float64
		wantFailed  float64
	}{
		{
			name:        "implicit 200",
			handler:     func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) },
			wantSuccess: 1,
		},
		{
			name:        "nothing written counts as 200",
			handler:     func(http.ResponseWriter, *http.Request) {},
			wantSuccess: 1,
		},
		{
			name:        "redirect is success",
			handler:     func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusFound) },
			wantSuccess: 1,
		},
		{
			name:       "client error",
			handler:    func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) },
			wantFailed: 1,
		},
		{
			name:       "server error",
			handler:    func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			wantFailed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := newSink()
			h := middlewarectx.MetricsMiddleware(sink)(tt.handler)

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/auth/health", nil))

			assert.Equal(t, 1.0, counter(t, sink, "api_calls_total"))
			assert.Equal(t, tt.wantSuccess, counter(t, sink, "api_calls_successful_total"))
			assert.Equal(t, tt.wantFailed, counter(t, sink, "api_calls_failed_total"))
			n, _ := summaryCount(t, sink, "api_response_time_seconds")
			assert.Equal(t, uint64(1), n)
		})
	}
}

func TestMetricsMiddleware_Sizes(t *testing.T) {
	sink := newSink()
	h := middlewarectx.MetricsMiddleware(sink)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"username":"bob"}`))
	h.ServeHTTP(httptest.NewRecorder(), req)

	n, sum := summaryCount(t, sink, "request_size_bytes")
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, float64(len(`{"username":"bob"}`)), sum)

	n, sum = summaryCount(t, sink, "response_size_bytes")
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, 10.0, sum)
}

func TestMetricsMiddleware_NoBodyNoRequestSize(t *testing.T) {
	sink := newSink()
	h := middlewarectx.MetricsMiddleware(sink)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	n, _ := summaryCount(t, sink, "request_size_bytes")
	assert.Zero(t, n)
}

func TestMetricsMiddleware_PanicCountsAsFailure(t *testing.T) {
	sink := newSink()
	h := middlewarectx.MetricsMiddleware(sink)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	assert.Panics(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, 1.0, counter(t, sink, "api_calls_total"))
	assert.Equal(t, 1.0, counter(t, sink, "api_calls_failed_total"))
	n, _ := summaryCount(t, sink, "api_response_time_seconds")
	assert.Equal(t, uint64(1), n)
}
