package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stepsProcessedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ivr",
			Name:      "steps_processed_total",
			Help:      "Total dialogue steps processed.",
		},
		[]string{"step", "outcome"},
	)

	verificationResultsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ivr",
			Name:      "verification_results_total",
			Help:      "Total identity verification attempts by result.",
		},
		[]string{"result"}, // "verified", "mismatch", "not_found", "error"
	)

	claimLookupOutcomeCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ivr",
			Name:      "claim_lookup_outcomes_total",
			Help:      "Total claim lookups for verified callers by outcome.",
		},
		[]string{"outcome"}, // "single", "none", "multiple", "error"
	)
)
