// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration observes HTTP request latency by route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shortify",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	// Redirects counts successful alias resolutions.
	Redirects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shortify",
		Name:      "redirects_total",
		Help:      "Successful alias resolutions.",
	})

	// LinksCreated counts newly created short links.
	LinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shortify",
		Name:      "links_created_total",
		Help:      "Short links created.",
	})

	// CacheHits counts resolution-cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shortify",
		Name:      "cache_hits_total",
		Help:      "Resolution cache hits.",
	})

	// CacheMisses counts resolution-cache misses.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shortify",
		Name:      "cache_misses_total",
		Help:      "Resolution cache misses.",
	})

	// ClicksRecorded counts click events successfully appended to the ledger.
	ClicksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shortify",
		Name:      "clicks_recorded_total",
		Help:      "Click events appended to the ledger.",
	})

	// ClicksDropped counts click events lost to append failures.
	ClicksDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shortify",
		Name:      "clicks_dropped_total",
		Help:      "Click events dropped after a failed append.",
	})

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shortify",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})
)
