package hw2

// Matches paging
const (
	DefaultMatchCount = 10
	MinMatchCount     = 1
	MaxMatchCount     = 100
)

// Cache resources, used as metric labels and in logs.
const (
	ResourceStats   = "stats"
	ResourceMatches = "matches"
	ResourceMatch   = "match"
	ResourceEvents  = "events"
)

// Log Messages
const (
	LogMsgCacheWriteFailed     = "Failed to write cache, returning live payload"
	LogMsgCacheReadFailed      = "Failed to read cache fallback"
	LogMsgServingCached        = "Upstream unavailable, serving cached payload"
	LogMsgPartialMatches       = "Matches page failed, returning pages already collected"
	LogMsgMatchesFetched       = "Fetched matches"
	LogMsgEventsSummarized     = "Summarized match events"
	LogMsgMatchDetailNormalize = "Normalized match detail"
)

// Error Messages
const (
	ErrMsgUnknownMetadataKind = "kind must be one of leader-powers, game-objects, techs."
	ErrMsgFailedToEncode      = "failed to encode response"
)
