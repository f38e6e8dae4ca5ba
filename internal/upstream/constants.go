package upstream

import "time"

// DefaultKeyHeader carries the API key on every Halo request.
const DefaultKeyHeader = "Ocp-Apim-Subscription-Key"

// Defaults
const (
	DefaultTimeout = 10 * time.Second
	DefaultName    = "halo"
	// maxBodyBytes bounds how much of an upstream response is read.
	maxBodyBytes = 16 << 20
)

// Log Messages
const (
	LogMsgRotatingCredential = "Upstream rejected credential, trying next key"
	LogMsgTransportFailure   = "Upstream request failed"
	LogMsgInvalidJSON        = "Upstream returned a success status with a body that is not JSON"
	LogMsgUpstreamError      = "Upstream returned an error status"
)

// Error Messages
const (
	ErrMsgFailedToBuildRequest = "failed to build upstream request"
	ErrMsgFailedToReadBody     = "failed to read upstream body"
)
