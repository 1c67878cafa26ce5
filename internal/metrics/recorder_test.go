package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	rec.ObserveRender("Car", time.Millisecond, nil)
	rec.ObserveRender("Car", time.Millisecond, nil)
	rec.ObserveRender("Car", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(rec.renders.WithLabelValues("Car", "ok")); got != 2 {
		t.Fatalf("ok renders = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.renders.WithLabelValues("Car", "error")); got != 1 {
		t.Fatalf("error renders = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(rec.duration); got != 1 {
		t.Fatalf("duration series = %d, want 1", got)
	}
}

func TestRecorderRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewRecorder(reg); err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	if _, err := NewRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := NewRecorder(nil); err == nil {
		t.Fatalf("expected error for nil registerer")
	}
}
