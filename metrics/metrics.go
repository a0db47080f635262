// Package metrics instruments the integrator with Prometheus collectors,
// grounded in Bwooce-latency-space's proxy (which wraps every hot path in
// counters/histograms) and the prometheus/client_golang dependency shared
// by PossumXI-Asgard_Arobi/pandora. Collectors are registered against a
// caller-supplied registry rather than the global default, so propagation
// behavior never depends on package-level mutable state; with a nil
// registry the Recorder's collectors still count but are not registered
// anywhere.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder records integrator activity. New always fills every field
// with a usable (possibly unregistered) collector.
type Recorder struct {
	StepsAccepted   prometheus.Counter
	StepsRejected   prometheus.Counter
	EventsDetected  prometheus.Counter
	Degeneracies    prometheus.Counter
	StepSizeSeconds prometheus.Histogram
}

// New builds a Recorder and, if reg is non-nil, registers its collectors
// against it. Registration errors (e.g. duplicate registration) are
// ignored the way a metrics layer should never fail the operation it
// instruments.
func New(reg *prometheus.Registry) *Recorder {
	r := &Recorder{
		StepsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "astro",
			Subsystem: "integrator",
			Name:      "steps_accepted_total",
			Help:      "Number of integration steps accepted by the error test.",
		}),
		StepsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "astro",
			Subsystem: "integrator",
			Name:      "steps_rejected_total",
			Help:      "Number of integration steps rejected by the error test and retried.",
		}),
		EventsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "astro",
			Subsystem: "integrator",
			Name:      "events_detected_total",
			Help:      "Number of event zero-crossings located during propagation.",
		}),
		Degeneracies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "astro",
			Subsystem: "elements",
			Name:      "conversion_degeneracies_total",
			Help:      "Number of orbital-element conversions that degraded at a documented singularity.",
		}),
		StepSizeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "astro",
			Subsystem: "integrator",
			Name:      "step_size_seconds",
			Help:      "Distribution of accepted integrator step sizes, in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(r.StepsAccepted, r.StepsRejected, r.EventsDetected, r.Degeneracies, r.StepSizeSeconds)
	}
	return r
}
