// Package metrics defines the Prometheus instrumentation for the
// launchpad service. All collectors register on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LaunchesTotal counts launch attempts by outcome: issued, rejected,
	// rate_limited, forbidden, failed.
	LaunchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "launches_total",
		Help:      "Launch attempts by outcome",
	}, []string{"outcome"})

	// LaunchDuration observes the wall time of a full launch, submission
	// through confirmation.
	LaunchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "launchpad",
		Name:      "launch_duration_seconds",
		Help:      "Launch duration from submission to confirmed deployment",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	})

	// ClaimsTotal counts per-token fee claim passes by outcome:
	// claimed, skipped, failed.
	ClaimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "claims_total",
		Help:      "Fee claim passes by outcome",
	}, []string{"outcome"})

	// ClaimedAmount accumulates claimed fee revenue by asset side.
	ClaimedAmount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "claimed_amount_total",
		Help:      "Cumulative claimed fee revenue by asset side",
	}, []string{"asset"})

	// FeeLookupFailures counts claimable-amount lookups that errored.
	FeeLookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "fee_lookup_failures_total",
		Help:      "Claimable fee lookups that returned an error",
	})

	// FeeLookupAnomalies counts lookups rejected by the sanity ceiling.
	FeeLookupAnomalies = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "fee_lookup_anomalies_total",
		Help:      "Claimable fee lookups excluded as implausibly large",
	})

	// AggregateRebuilds counts fee aggregate cache rebuilds.
	AggregateRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "aggregate_rebuilds_total",
		Help:      "Fee aggregate cache rebuilds",
	})
)
