// Package metrics exposes prometheus collectors for the dialog core
// (SPEC_FULL.md §4 domain stack: client_golang wired against transitions,
// authentication retries, and in-dialog request latency).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Transitions counts every persistent state transition, labeled by the
	// destination state and the dialog's role.
	Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dialogcore",
		Name:      "transitions_total",
		Help:      "Persistent dialog state transitions.",
	}, []string{"state", "role"})

	// AuthRetries counts 401/407-triggered request rebuilds.
	AuthRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dialogcore",
		Name:      "auth_retries_total",
		Help:      "Digest authentication retries issued for in-dialog requests.",
	}, []string{"method"})

	// RequestDuration observes the latency of an in-dialog request from
	// send to final response, labeled by method and resulting status class.
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dialogcore",
		Name:      "request_duration_seconds",
		Help:      "Time from sending an in-dialog request to its final response.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status_class"})
)

func init() {
	prometheus.MustRegister(Transitions, AuthRetries, RequestDuration)
}
