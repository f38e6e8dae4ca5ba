package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)

	InboundRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameInboundRateLimited,
			Help: HelpTextInboundRateLimited,
		},
	)
)

// Upstream Metrics
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpstreamRequestsTotal,
			Help: HelpTextUpstreamRequestsTotal,
		},
		[]string{LabelUpstream, LabelOutcome},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameUpstreamRequestDuration,
			Help:    HelpTextUpstreamRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelUpstream},
	)

	CredentialRotations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCredentialRotations,
			Help: HelpTextCredentialRotations,
		},
		[]string{LabelUpstream},
	)
)

// Cache Metrics
var (
	CacheFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCacheFallbacks,
			Help: HelpTextCacheFallbacks,
		},
		[]string{LabelResource, LabelReason},
	)

	CacheWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCacheWriteFailures,
			Help: HelpTextCacheWriteFailures,
		},
		[]string{LabelResource},
	)

	MetadataLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMetadataLookups,
			Help: HelpTextMetadataLookups,
		},
		[]string{LabelKind, LabelResult},
	)
)
