package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scrape_attempts_total",
		Help: "Acquisition strategy attempts by strategy and outcome.",
	}, []string{"strategy", "outcome"})

	metricCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scrape_cache_total",
		Help: "Scraping queue cache lookups by result.",
	}, []string{"result"})

	metricDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scrape_duration_seconds",
		Help:    "End-to-end duration of one scraping job.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)
