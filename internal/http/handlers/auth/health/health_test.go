package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	fixed := time.UnixMilli(1700000000123)
	rec := httptest.NewRecorder()
	New(func() time.Time { return fixed }).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP","service":"Authentication Service","timestamp":1700000000123}`, rec.Body.String())
}

func TestHealthHandler_DefaultClock(t *testing.T) {
	h := New(nil)
	assert.NotNil(t, h.now)
}
