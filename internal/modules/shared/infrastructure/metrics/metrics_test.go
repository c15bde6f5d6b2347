package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordCacheLookup(t *testing.T) {
	m := New()

	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)

	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); got != 1 {
		t.Errorf("hit = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); got != 2 {
		t.Errorf("miss = %v, want 2", got)
	}
}

func TestMetrics_RecordClassifierRequest(t *testing.T) {
	m := New()

	m.RecordClassifierRequest("batch", nil, 100*time.Millisecond)
	m.RecordClassifierRequest("batch", errors.New("timeout"), time.Second)

	if got := testutil.ToFloat64(m.ClassifierRequests.WithLabelValues("batch", "success")); got != 1 {
		t.Errorf("success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ClassifierRequests.WithLabelValues("batch", "failure")); got != 1 {
		t.Errorf("failure = %v, want 1", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	// nilでもパニックしない
	m.RecordCacheLookup(true)
	m.RecordClassifierRequest("analyze", nil, time.Millisecond)
	m.RecordJob("analyze_sentiment", nil)

	if m.Handler() == nil {
		t.Error("Handler() returned nil")
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordJob("analyze_review", errors.New("failed"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `sentiment_jobs_total{status="failed",type="analyze_review"} 1`) {
		t.Errorf("metrics output missing job counter:\n%s", rec.Body.String())
	}
}
