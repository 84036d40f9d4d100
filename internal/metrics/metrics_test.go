package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOTP(t *testing.T) {
	before := testutil.ToFloat64(otpEvents.WithLabelValues("issued"))
	RecordOTP("issued")
	RecordOTP("issued")
	assert.Equal(t, before+2, testutil.ToFloat64(otpEvents.WithLabelValues("issued")))
}

func TestRecordAuth(t *testing.T) {
	before := testutil.ToFloat64(authEvents.WithLabelValues("login", "failure"))
	RecordAuth("login", false)
	assert.Equal(t, before+1, testutil.ToFloat64(authEvents.WithLabelValues("login", "failure")))
}

func TestRecordHTTP_UnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	RecordHTTP("GET", "", 404, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestTrackInFlight(t *testing.T) {
	before := testutil.ToFloat64(httpInFlight)
	done := TrackInFlight()
	assert.Equal(t, before+1, testutil.ToFloat64(httpInFlight))
	done()
	assert.Equal(t, before, testutil.ToFloat64(httpInFlight))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	RecordWebhook("RENEWAL")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `cardio_webhook_events_total{type="RENEWAL"}`))
}
