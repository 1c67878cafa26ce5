// Package metrics exposes shape render counters and latencies to Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-shapes/pkg/render"
)

const namespace = "shapes"

// Recorder implements render.Observer.
type Recorder struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ render.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		return nil, errors.New("metrics: registerer is required")
	}
	r := &Recorder{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Shape renders by shape name and outcome.",
		}, []string{"shape", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent resolving and rendering a shape.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"shape"}),
	}
	for _, c := range []prometheus.Collector{r.renders, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveRender records one render attempt.
func (r *Recorder) ObserveRender(shapeName string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.renders.WithLabelValues(shapeName, outcome).Inc()
	r.duration.WithLabelValues(shapeName).Observe(elapsed.Seconds())
}
