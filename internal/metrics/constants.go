package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "statsgate_http_requests_total"
	MetricNameHTTPRequestDuration  = "statsgate_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "statsgate_http_requests_in_flight"
)

// Upstream metric names
const (
	MetricNameUpstreamRequestsTotal   = "statsgate_upstream_requests_total"
	MetricNameUpstreamRequestDuration = "statsgate_upstream_request_duration_seconds"
	MetricNameCredentialRotations     = "statsgate_credential_rotations_total"
)

// Cache metric names
const (
	MetricNameCacheFallbacks     = "statsgate_cache_fallbacks_total"
	MetricNameCacheWriteFailures = "statsgate_cache_write_failures_total"
	MetricNameMetadataLookups    = "statsgate_metadata_lookups_total"
	MetricNameInboundRateLimited = "statsgate_inbound_rate_limited_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Upstream metric help text
const (
	HelpTextUpstreamRequestsTotal   = "Upstream API attempts by outcome"
	HelpTextUpstreamRequestDuration = "Upstream API attempt latency in seconds"
	HelpTextCredentialRotations     = "Times a request moved on to the next API key"
)

// Cache metric help text
const (
	HelpTextCacheFallbacks     = "Responses served from the cache after an upstream failure"
	HelpTextCacheWriteFailures = "Cache writes that failed after a successful upstream call"
	HelpTextMetadataLookups    = "Metadata name map lookups by result"
	HelpTextInboundRateLimited = "Inbound requests rejected by the per-IP rate limiter"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelUpstream = "upstream"
	LabelOutcome  = "outcome"
	LabelResource = "resource"
	LabelReason   = "reason"
	LabelKind     = "kind"
	LabelResult   = "result"
)

// Upstream attempt outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeNetwork     = "network"
	OutcomeInvalidJSON = "invalid_json"
)

// Metadata lookup results
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// HTTPLatencyBuckets defines the histogram buckets for HTTP and upstream request duration
var HTTPLatencyBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
