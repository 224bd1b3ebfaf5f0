package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes drive session metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	TicksTotal     prometheus.Counter
	TickDuration   prometheus.Histogram
	ActiveSessions prometheus.Gauge
	InputEvents    *prometheus.CounterVec
	DroppedInputs  prometheus.Counter
}

// NewCollector registers drive metrics against the provided registerer.
// Registering twice against the same registerer reuses the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "drivesim_ticks_total",
		Help: "Number of simulation ticks advanced across all sessions.",
	}), "drivesim_ticks_total")
	if err != nil {
		return nil, err
	}

	tickDuration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "drivesim_tick_duration_seconds",
		Help:    "Time spent applying input and advancing one session tick.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}), "drivesim_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	active, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "drivesim_active_sessions",
		Help: "Number of drive sessions currently running.",
	}), "drivesim_active_sessions")
	if err != nil {
		return nil, err
	}

	inputs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drivesim_input_events_total",
		Help: "Input changes applied to simulators, by direction and edge.",
	}, []string{"direction", "edge"}), "drivesim_input_events_total")
	if err != nil {
		return nil, err
	}

	dropped, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "drivesim_dropped_inputs_total",
		Help: "Input changes rejected because a session input queue was full.",
	}), "drivesim_dropped_inputs_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		TicksTotal:     ticks,
		TickDuration:   tickDuration,
		ActiveSessions: active,
		InputEvents:    inputs,
		DroppedInputs:  dropped,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.Gatherer()
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveTick records one tick and how long it took.
func (c *Collector) ObserveTick(d time.Duration) {
	if c == nil {
		return
	}
	c.TicksTotal.Inc()
	c.TickDuration.Observe(d.Seconds())
}

// SessionStarted increments the active session gauge.
func (c *Collector) SessionStarted() {
	if c == nil {
		return
	}
	c.ActiveSessions.Inc()
}

// SessionEnded decrements the active session gauge.
func (c *Collector) SessionEnded() {
	if c == nil {
		return
	}
	c.ActiveSessions.Dec()
}

// IncInput counts one applied input change.
func (c *Collector) IncInput(direction string, pressed bool) {
	if c == nil {
		return
	}
	edge := "release"
	if pressed {
		edge = "press"
	}
	c.InputEvents.WithLabelValues(direction, edge).Inc()
}

// IncDroppedInput counts one input change rejected by a full queue.
func (c *Collector) IncDroppedInput() {
	if c == nil {
		return
	}
	c.DroppedInputs.Inc()
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C, name string) (C, error) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero C
		return zero, err
	}
	return collector, nil
}
