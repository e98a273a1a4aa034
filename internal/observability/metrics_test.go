package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestSimCollectorRecordsFrames(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	collector.ObserveFrame(0.002)
	collector.ObserveFrame(0.004)

	if got := testutil.ToFloat64(collector.FramesTotal); got != 2 {
		t.Fatalf("orrery_frames_total = %v, want 2", got)
	}
	if count := histogramSampleCount(t, reg, "orrery_frame_duration_seconds"); count != 2 {
		t.Fatalf("orrery_frame_duration_seconds sample_count = %d, want 2", count)
	}
}

func TestSimCollectorRecordsFocusOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	collector.RecordFocus(FocusStarted)
	collector.RecordFocus(FocusRejected)
	collector.RecordFocus(FocusRejected)

	if got := testutil.ToFloat64(collector.FocusRequests.WithLabelValues(FocusStarted)); got != 1 {
		t.Fatalf("started = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.FocusRequests.WithLabelValues(FocusRejected)); got != 2 {
		t.Fatalf("rejected = %v, want 2", got)
	}
}

func TestSimCollectorPausedGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	collector.SetPaused(true)
	if got := testutil.ToFloat64(collector.Paused); got != 1 {
		t.Fatalf("orrery_paused = %v, want 1", got)
	}
	collector.SetPaused(false)
	if got := testutil.ToFloat64(collector.Paused); got != 0 {
		t.Fatalf("orrery_paused = %v, want 0", got)
	}
}

func TestSimCollectorRegistrationIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("first NewSimCollector: %v", err)
	}
	second, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("second NewSimCollector: %v", err)
	}

	first.FramesTotal.Inc()
	second.FramesTotal.Inc()
	if got := testutil.ToFloat64(first.FramesTotal); got != 2 {
		t.Fatalf("shared counter = %v, want 2", got)
	}
}

func TestSimCollectorHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}
	collector.Bodies.Set(10)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "orrery_bodies 10") {
		t.Fatalf("metrics output missing orrery_bodies gauge:\n%s", body)
	}
}

func histogramSampleCount(t *testing.T, g prometheus.Gatherer, name string) uint64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var fam *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == name {
			fam = f
			break
		}
	}
	if fam == nil {
		t.Fatalf("histogram %s not found", name)
	}
	for _, m := range fam.GetMetric() {
		if h := m.GetHistogram(); h != nil {
			return h.GetSampleCount()
		}
	}
	t.Fatalf("metric family %s carries no histogram", name)
	return 0
}
