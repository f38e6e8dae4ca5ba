package halo

// Log Messages
const (
	LogMsgMetadataFetchFailed = "Failed to fetch metadata"
)

// Error Messages
const (
	ErrMsgFailedToDecodeMetadata = "failed to decode metadata page"
)
