package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_api_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "status"})

	dispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "campaign_dispatch_duration_seconds",
		Help:    "Wall time of one multi-channel dispatch.",
		Buckets: prometheus.DefBuckets,
	})

	channelFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_channel_failures_total",
		Help: "Channel pipeline or query failures by channel and error code.",
	}, []string{"channel", "code"})
)
