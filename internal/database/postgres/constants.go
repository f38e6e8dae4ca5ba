package postgres

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Write Operations
const (
	ErrMsgFailedToStorePlayer       = "failed to store player"
	ErrMsgFailedToStoreStats        = "failed to store stats payload"
	ErrMsgFailedToStoreSearch       = "failed to store search event"
	ErrMsgInvalidSearchID           = "invalid search id"
	ErrMsgFailedToStoreMatch        = "failed to store match"
	ErrMsgFailedToStoreMatchPlayer  = "failed to store match player"
	ErrMsgFailedToStoreMatchTeam    = "failed to store match team"
	ErrMsgFailedToStoreLeaderPower  = "failed to store leader power"
	ErrMsgFailedToStoreRawPayload   = "failed to store raw payload"
	ErrMsgFailedToStoreEventSummary = "failed to store event summary"
)

// Error Messages - Stats Cache Operations
const (
	ErrMsgFailedToGetCachedStats = "failed to get cached stats"
)

// Error Messages - Match Operations
const (
	ErrMsgFailedToQueryPlayerMatches = "failed to query player matches"
	ErrMsgFailedToQueryMatchPlayers  = "failed to query match players"
	ErrMsgFailedToMarshalBuildOrder  = "failed to marshal build order"
)

// Error Messages - Raw Payload Operations
const (
	ErrMsgFailedToGetRawEvents = "failed to get raw event payload"
)

// Log Messages
const (
	LogMsgDiscardingInvalidPayload = "Discarding cached payload that is not valid JSON"
	LogMsgFailedToRollback         = "Failed to rollback transaction"
)
