// Package metrics exposes planner counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "downtime"

// Recorder counts planner events. A nil *Recorder records nothing.
type Recorder struct {
	added     *prometheus.CounterVec
	edited    *prometheus.CounterVec
	removed   prometheus.Counter
	cancelled *prometheus.CounterVec
	posted    *prometheus.CounterVec
	submitted prometheus.Counter
	registry  *prometheus.Registry
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_added_total",
			Help:      "Activities added to a plan.",
		}, []string{"kind"}),
		edited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_edited_total",
			Help:      "Activities edited.",
		}, []string{"kind"}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_removed_total",
			Help:      "Activities removed from a plan.",
		}),
		cancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialogs_cancelled_total",
			Help:      "Dialogs closed without a value.",
		}, []string{"kind"}),
		posted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_posted_total",
			Help:      "Reports posted to chat.",
		}, []string{"kind"}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Plans fully submitted to chat.",
		}),
	}
	r.registry.MustRegister(
		r.added, r.edited, r.removed, r.cancelled, r.posted, r.submitted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the registry holding the counters.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) ActivityAdded(kind string) {
	if r != nil {
		r.added.WithLabelValues(kind).Inc()
	}
}

func (r *Recorder) ActivityEdited(kind string) {
	if r != nil {
		r.edited.WithLabelValues(kind).Inc()
	}
}

func (r *Recorder) ActivityRemoved() {
	if r != nil {
		r.removed.Inc()
	}
}

func (r *Recorder) DialogCancelled(kind string) {
	if r != nil {
		r.cancelled.WithLabelValues(kind).Inc()
	}
}

func (r *Recorder) ReportPosted(kind string) {
	if r != nil {
		r.posted.WithLabelValues(kind).Inc()
	}
}

func (r *Recorder) Submitted() {
	if r != nil {
		r.submitted.Inc()
	}
}
