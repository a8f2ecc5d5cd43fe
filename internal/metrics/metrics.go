package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quizpin"

var (
	PINCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pin_collisions_total",
		Help:      "PIN candidates rejected because a set already holds them.",
	})

	PINAllocationsExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pin_allocations_exhausted_total",
		Help:      "PIN allocations that ran out of attempts.",
	})

	SetsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sets_created_total",
		Help:      "Question sets created, by source.",
	}, []string{"source"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_cache_lookups_total",
		Help:      "Generation cache lookups, by result.",
	}, []string{"result"})

	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_provider_calls_total",
		Help:      "Calls to the external generation provider.",
	}, []string{"provider", "outcome"})

	AttemptsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attempts_recorded_total",
		Help:      "Play attempts persisted.",
	})

	LedgerAppends = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_appends_total",
		Help:      "Usage ledger append outcomes.",
	}, []string{"outcome"})
)
