package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.NoteCreated("FREE")
	m.NoteCreated("FREE")
	m.QuotaRejected("FREE")
	m.LoginAttempt("success")
	m.PlanUpgraded()

	body := scrape(t, m)
	assert.Contains(t, body, `notes_notes_created_total{plan="FREE"} 2`)
	assert.Contains(t, body, `notes_quota_rejections_total{plan="FREE"} 1`)
	assert.Contains(t, body, `notes_login_attempts_total{result="success"} 1`)
	assert.Contains(t, body, `notes_plan_upgrades_total 1`)
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.NoteCreated("FREE")
		m.ObserveHTTPRequest("GET", "/health", "200", time.Millisecond)
		m.WorkerMessage("index", "INDEX", "ok")
	})
}

func TestMetrics_HTTPRequests(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest("GET", "/api/v1/notes", "200", 10*time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `notes_http_requests_total{method="GET",route="/api/v1/notes",status="200"} 1`)
	assert.Contains(t, body, `notes_http_request_duration_seconds_count{method="GET",route="/api/v1/notes"} 1`)
}
