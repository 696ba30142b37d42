package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var providerAPIDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "moderation_provider_api_duration_sec",
	Help: "Duration of moderation provider API calls, including retries",
}, []string{"provider"})

var providerAPICount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_provider_api_count",
	Help: "Number of moderation provider API calls, by HTTP status code",
}, []string{"provider", "status"})
