package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	verdictOutcomeFlagged = "flagged"
	verdictOutcomeClean   = "clean"
	verdictOutcomeFailed  = "all_failed"
	verdictOutcomeAborted = "aborted"
)

var verdictCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_verdict_count",
	Help: "Number of moderation pipeline runs, by outcome",
}, []string{"outcome"})

var providerResultCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_provider_result_count",
	Help: "Number of per-provider results recorded in verdicts, by status",
}, []string{"provider", "status"})

var verdictCacheCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_verdict_cache_count",
	Help: "Verdict cache lookups, by result",
}, []string{"result"})

func outcomeLabel(flagged bool) string {
	if flagged {
		return verdictOutcomeFlagged
	}
	return verdictOutcomeClean
}
