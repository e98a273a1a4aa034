package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Focus request outcomes used as the label of FocusRequests.
const (
	FocusStarted     = "started"
	FocusRejected    = "rejected"
	FocusUnknownBody = "unknown_body"
)

// SimCollector bundles Prometheus metrics for the simulation loop and its
// WebSocket surface.
type SimCollector struct {
	gatherer prometheus.Gatherer

	FramesTotal   prometheus.Counter
	FrameDuration prometheus.Histogram
	Bodies        prometheus.Gauge
	Clients       prometheus.Gauge
	Paused        prometheus.Gauge
	TimeSpeed     prometheus.Gauge
	FocusRequests *prometheus.CounterVec
}

// NewSimCollector registers simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registration is idempotent: an already-registered collector of the same
// shape is reused.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_frames_total",
		Help: "Total number of simulation frames stepped.",
	}), "orrery_frames_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orrery_frame_duration_seconds",
		Help:    "Wall time spent advancing one simulation frame.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
	duration, err = registerHistogram(reg, duration, "orrery_frame_duration_seconds")
	if err != nil {
		return nil, err
	}

	bodies, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_bodies",
		Help: "Number of simulated celestial bodies.",
	}), "orrery_bodies")
	if err != nil {
		return nil, err
	}
	clients, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_ws_clients",
		Help: "Currently connected WebSocket clients.",
	}), "orrery_ws_clients")
	if err != nil {
		return nil, err
	}
	paused, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_paused",
		Help: "1 while the simulation is paused, 0 otherwise.",
	}), "orrery_paused")
	if err != nil {
		return nil, err
	}
	speed, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_time_speed",
		Help: "Current time-scale factor in simulated days per real second.",
	}), "orrery_time_speed")
	if err != nil {
		return nil, err
	}

	focus := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_focus_requests_total",
		Help: "Camera focus/reset requests, labeled by outcome.",
	}, []string{"outcome"})
	focus, err = registerCounterVec(reg, focus, "orrery_focus_requests_total")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:      gatherer,
		FramesTotal:   frames,
		FrameDuration: duration,
		Bodies:        bodies,
		Clients:       clients,
		Paused:        paused,
		TimeSpeed:     speed,
		FocusRequests: focus,
	}, nil
}

// ObserveFrame records one completed frame and its duration in seconds.
func (c *SimCollector) ObserveFrame(seconds float64) {
	if c == nil {
		return
	}
	c.FramesTotal.Inc()
	c.FrameDuration.Observe(seconds)
}

// RecordFocus counts a focus/reset request by outcome.
func (c *SimCollector) RecordFocus(outcome string) {
	if c == nil {
		return
	}
	c.FocusRequests.WithLabelValues(outcome).Inc()
}

// SetPaused mirrors the pause flag into its gauge.
func (c *SimCollector) SetPaused(paused bool) {
	if c == nil {
		return
	}
	if paused {
		c.Paused.Set(1)
	} else {
		c.Paused.Set(0)
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, ctr prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(ctr); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return ctr, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
