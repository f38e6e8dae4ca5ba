package aoe4

import "time"

// Defaults
const (
	DefaultBaseURL = "https://aoe4world.com/api/v0"
	DefaultTimeout = 10 * time.Second
	UpstreamName   = "aoe4"

	// MinSearchLength is the shortest accepted player search query.
	MinSearchLength = 3
	// maxErrorTextLength bounds an upstream plain-text error message.
	maxErrorTextLength = 200
	maxBodyBytes       = 16 << 20
)

// Validation messages returned to callers as bad_request.
const (
	ErrMsgSearchQueryTooShort   = "Search query must be at least 3 characters."
	ErrMsgProfileIDRequired     = "profileId is required."
	ErrMsgProfileIDInvalid      = "profileId must be a positive number."
	ErrMsgGameIDInvalid         = "gameId must be a positive number."
	ErrMsgInvalidLeaderboard    = "Invalid leaderboard key."
	ErrMsgLeaderboardKeyMissing = "Valid leaderboard key is required."
	ErrMsgMetaLeaderboard       = "Valid leaderboard is required."
	ErrMsgMetaType              = "Valid stats type is required."
	ErrMsgTeamsQuickMatchOnly   = "teams stats are only available for quick match team queues."
)

// Log Messages
const (
	LogMsgUpstreamFailed = "AoE4World request failed"
	LogMsgUpstreamError  = "AoE4World returned an error status"
)
