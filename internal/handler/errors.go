package handler

// ContentTypeJSON is sent with every API response.
const ContentTypeJSON = "application/json; charset=utf-8"

// Log messages
const (
	LogMsgEncodeFailed      = "Failed to encode JSON response"
	LogMsgWriteFailed       = "Failed to write response"
	LogMsgUnclassifiedError = "Service returned an unclassified error"
	LogMsgRequestFailed     = "Request failed"
	LogMsgDecodeFailed      = "Failed to decode request body"
	LogMsgReadinessFailed   = "Readiness check failed"
)

// Health responses
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
	HealthMsgDatabaseDown   = "database connection failed"
)
