package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Player outcome and type codes reported by the Halo Wars 2 API.
const (
	PlayerTypeHuman    = 1
	PlayerTypeComputer = 2
	// PlayerTypeNone marks an empty slot. Such players never get a zero-filled event summary.
	PlayerTypeNone = 3
)

// BuildOrderLimit caps the combined number of build order entries kept per player.
const BuildOrderLimit = 8

// BuildOrderKind identifies what a build order entry records.
type BuildOrderKind string

const (
	BuildOrderBuilding    BuildOrderKind = "building"
	BuildOrderUpgrade     BuildOrderKind = "upgrade"
	BuildOrderUnit        BuildOrderKind = "unit"
	BuildOrderUnitUpgrade BuildOrderKind = "unit_upgrade"
)

// NormalizePlayerID derives the stable player key from a gamertag.
func NormalizePlayerID(gamertag string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(gamertag))
}

// AIPlayerKey synthesizes a key for computer-controlled players, which have no
// stable upstream identity. Both the match list and match detail paths use it so
// their rows merge.
func AIPlayerKey(teamID *int, index int) string {
	team := "unknown"
	if teamID != nil {
		team = strconv.Itoa(*teamID)
	}
	return "ai:" + team + ":" + strconv.Itoa(index)
}

// Player is a gamertag seen in any upstream response.
type Player struct {
	PlayerID   string    `json:"player_id"`
	Gamertag   string    `json:"gamertag"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// Match holds match-level fields. Nil pointers are unknown and never overwrite known values.
type Match struct {
	MatchID         string     `json:"match_id"`
	MatchType       *int       `json:"match_type,omitempty"`
	GameMode        *int       `json:"game_mode,omitempty"`
	SeasonID        *string    `json:"season_id,omitempty"`
	PlaylistID      *string    `json:"playlist_id,omitempty"`
	MapID           *string    `json:"map_id,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	TeamSize        *int       `json:"team_size,omitempty"`
	IngestedAt      time.Time  `json:"ingested_at"`
}

// MatchPlayer is one participant of a match, keyed by (MatchID, PlayerKey).
type MatchPlayer struct {
	MatchID          string  `json:"match_id"`
	PlayerKey        string  `json:"player_key"`
	PlayerID         *string `json:"player_id,omitempty"`
	PlayerName       *string `json:"player_name,omitempty"`
	IsHuman          *bool   `json:"is_human,omitempty"`
	TeamID           *int    `json:"team_id,omitempty"`
	LeaderID         *int    `json:"leader_id,omitempty"`
	Outcome          *int    `json:"outcome,omitempty"`
	UnitsDestroyed   *int    `json:"units_destroyed,omitempty"`
	UnitsLost        *int    `json:"units_lost,omitempty"`
	LeaderPowersUsed *int    `json:"leader_powers_used,omitempty"`
	PlayerIndex      *int    `json:"player_index,omitempty"`
}

// MatchTeam aggregates MatchPlayer rows sharing a team id.
type MatchTeam struct {
	MatchID          string `json:"match_id"`
	TeamID           int    `json:"team_id"`
	Outcome          *int   `json:"outcome,omitempty"`
	UnitsDestroyed   int    `json:"units_destroyed"`
	UnitsLost        int    `json:"units_lost"`
	LeaderPowersUsed int    `json:"leader_powers_used"`
}

// PlayerLeaderPower is a per-player cast count for one leader power.
type PlayerLeaderPower struct {
	MatchID   string `json:"match_id"`
	PlayerKey string `json:"player_key"`
	PowerID   string `json:"power_id"`
	TimesCast int    `json:"times_cast"`
}

// BuildOrderEntry is one timestamped action in a player's early build.
type BuildOrderEntry struct {
	TimeMs     int64          `json:"time_ms"`
	Kind       BuildOrderKind `json:"kind"`
	ObjectID   string         `json:"object_id,omitempty"`
	InstanceID *int64         `json:"instance_id,omitempty"`
}

// MatchEventSummary holds counters derived from a match event stream for one player.
// It is recomputed from the complete stream and replaces any prior row.
type MatchEventSummary struct {
	MatchID             string            `json:"match_id"`
	PlayerIndex         int               `json:"player_index"`
	TeamID              *int              `json:"team_id,omitempty"`
	UnitsTrained        int               `json:"units_trained"`
	BuildingsCompleted  int               `json:"buildings_completed"`
	BuildingUpgrades    int               `json:"building_upgrades"`
	UnitUpgrades        int               `json:"unit_upgrades"`
	LeaderPowersCast    int               `json:"leader_powers_cast"`
	VeterancyPromotions int               `json:"veterancy_promotions"`
	BuildOrder          []BuildOrderEntry `json:"build_order"`
	FirstEventMs        *int64            `json:"first_event_ms,omitempty"`
	LastEventMs         *int64            `json:"last_event_ms,omitempty"`
}

// MatchDetail is everything derived from one match-detail payload.
type MatchDetail struct {
	MatchID      string
	IngestedAt   time.Time
	Players      []MatchPlayer
	Teams        []MatchTeam
	LeaderPowers []PlayerLeaderPower
	// Humans lists the human participants so their player rows stay fresh.
	Humans []Player
}

// MatchSummaryBatch is everything derived from a page-merged matches list.
type MatchSummaryBatch struct {
	Searched Player
	Search   SearchEvent
	Matches  []Match
	Players  []MatchPlayer
	Humans   []Player
}

// RawPayload is the verbatim upstream payload kept as a last-resort cache.
type RawPayload struct {
	MatchID    string          `json:"match_id"`
	Payload    json.RawMessage `json:"payload"`
	IsComplete bool            `json:"is_complete"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// SearchEvent logs a matches lookup.
type SearchEvent struct {
	SearchID   string    `json:"search_id"`
	PlayerID   string    `json:"player_id"`
	SearchedAt time.Time `json:"searched_at"`
	MatchCount int       `json:"match_count"`
}

// CachedPayload is a previously stored payload and when it was fetched.
type CachedPayload struct {
	Payload   json.RawMessage
	FetchedAt time.Time
}

// CachedMatch is a match row joined with its participants, used to rebuild a
// matches list when the upstream is unavailable.
type CachedMatch struct {
	Match   Match
	Players []MatchPlayer
}
