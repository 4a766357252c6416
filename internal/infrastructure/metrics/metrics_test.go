package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestStarted(t *testing.T) {
	done := RequestStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInFlight))
	done("get", "/api/pets/:id", 200)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/pets/:id", "200")))

	RequestStarted()("GET", "", 404)
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordApplication(t *testing.T) {
	RecordApplication("auto_rejected", 3)
	RecordApplication("auto_rejected", 0)
	assert.Equal(t, float64(3), testutil.ToFloat64(applicationResults.WithLabelValues("auto_rejected")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordRateLimited("memory")
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pet_adoption_http_rate_limited_total")
}
