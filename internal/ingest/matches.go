package ingest

import (
	"encoding/json"
	"time"

	"github.com/osse101/statsgate/internal/domain"
)

// In the matches list, a PlayerType of 3 marks a computer player. Cached lists
// are rebuilt with 0 for humans and 3 for everyone else.
const (
	summaryPlayerTypeHuman    = 0
	summaryPlayerTypeComputer = 3
)

// NormalizeMatchSummaries turns matches-list results into rows for the cache.
// Results without a MatchId are skipped. Unit and leader power counts are left
// nil because only match detail carries them.
func NormalizeMatchSummaries(gamertag string, results []json.RawMessage, now time.Time) domain.MatchSummaryBatch {
	batch := domain.MatchSummaryBatch{
		Searched: domain.Player{PlayerID: domain.NormalizePlayerID(gamertag), Gamertag: gamertag, LastSeenAt: now},
		Search: domain.SearchEvent{
			PlayerID:   domain.NormalizePlayerID(gamertag),
			SearchedAt: now,
			MatchCount: len(results),
		},
	}

	for _, raw := range results {
		rec, ok := decodeRecord(raw)
		if !ok {
			continue
		}
		matchID := rec.text("MatchId")
		if matchID == "" {
			continue
		}

		players := rec.list("Players")
		teamIDs := make([]*int, 0, len(players))
		for i, praw := range players {
			prec, ok := decodeRecord(praw)
			if !ok {
				teamIDs = append(teamIDs, nil)
				continue
			}
			teamID := prec.intPtr("TeamId")
			teamIDs = append(teamIDs, teamID)
			batch.Players = append(batch.Players, summaryPlayer(matchID, i, prec, teamID))
			if humanID := humanIDFromSummary(prec); humanID != "" {
				batch.Humans = append(batch.Humans, domain.Player{
					PlayerID:   domain.NormalizePlayerID(humanID),
					Gamertag:   humanID,
					LastSeenAt: now,
				})
			}
		}

		match := domain.Match{
			MatchID:         matchID,
			MatchType:       rec.intPtr("MatchType"),
			GameMode:        rec.intPtr("GameMode"),
			SeasonID:        optionalText(rec, "SeasonId"),
			PlaylistID:      optionalText(rec, "PlaylistId"),
			MapID:           optionalText(rec, "MapId"),
			DurationSeconds: ParseDurationSeconds(rec.text("PlayerMatchDuration")),
			TeamSize:        TeamSize(teamIDs),
			IngestedAt:      now,
		}
		if start, ok := rec.object("MatchStartDate"); ok {
			match.StartedAt = parseTimestamp(start.text("ISO8601Date"))
		}
		batch.Matches = append(batch.Matches, match)
	}
	return batch
}

func humanIDFromSummary(rec record) string {
	raw, ok := rec["HumanPlayerId"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func summaryPlayer(matchID string, index int, rec record, teamID *int) domain.MatchPlayer {
	mp := domain.MatchPlayer{
		MatchID:     matchID,
		TeamID:      teamID,
		LeaderID:    rec.intPtr("LeaderId"),
		Outcome:     rec.intPtr("MatchOutcome"),
		PlayerIndex: domain.Ptr(index),
	}
	if humanID := humanIDFromSummary(rec); humanID != "" {
		id := domain.NormalizePlayerID(humanID)
		mp.PlayerKey = id
		mp.PlayerID = &id
		mp.PlayerName = domain.Ptr(humanID)
		mp.IsHuman = domain.Ptr(true)
		return mp
	}

	name := "Unknown"
	if pt, ok := rec.integer("PlayerType"); ok && pt == summaryPlayerTypeComputer {
		name = "AI"
	}
	mp.PlayerKey = domain.AIPlayerKey(teamID, index)
	mp.PlayerName = &name
	mp.IsHuman = domain.Ptr(false)
	return mp
}

func optionalText(rec record, key string) *string {
	v := rec.text(key)
	if v == "" {
		return nil
	}
	return &v
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// CachedSummary mirrors the upstream matches-list result shape so cached
// responses look like live ones.
type CachedSummary struct {
	MatchID             string              `json:"MatchId"`
	MatchType           *int                `json:"MatchType,omitempty"`
	GameMode            *int                `json:"GameMode,omitempty"`
	SeasonID            *string             `json:"SeasonId,omitempty"`
	PlaylistID          *string             `json:"PlaylistId,omitempty"`
	MapID               *string             `json:"MapId,omitempty"`
	MatchStartDate      *CachedStartDate    `json:"MatchStartDate,omitempty"`
	PlayerMatchDuration *string             `json:"PlayerMatchDuration"`
	Players             []CachedSummarySlot `json:"Players"`
}

type CachedStartDate struct {
	ISO8601Date string `json:"ISO8601Date"`
}

type CachedSummaryGamertag struct {
	Gamertag string `json:"Gamertag"`
}

type CachedSummarySlot struct {
	HumanPlayerID *CachedSummaryGamertag `json:"HumanPlayerId,omitempty"`
	Gamertag      *string                `json:"Gamertag,omitempty"`
	PlayerID      *string                `json:"PlayerId,omitempty"`
	PlayerType    int                    `json:"PlayerType"`
	TeamID        *int                   `json:"TeamId,omitempty"`
	LeaderID      *int                   `json:"LeaderId,omitempty"`
	MatchOutcome  *int                   `json:"MatchOutcome,omitempty"`
	PlayerIndex   *int                   `json:"PlayerIndex,omitempty"`
}

// RebuildMatchSummaries reconstructs a matches list from cached rows. It also
// returns the most recent ingestion time, which is zero when rows is empty.
func RebuildMatchSummaries(rows []domain.CachedMatch) ([]CachedSummary, time.Time) {
	var latest time.Time
	out := make([]CachedSummary, 0, len(rows))
	for _, row := range rows {
		m := row.Match
		if m.IngestedAt.After(latest) {
			latest = m.IngestedAt
		}
		s := CachedSummary{
			MatchID:             m.MatchID,
			MatchType:           m.MatchType,
			GameMode:            m.GameMode,
			SeasonID:            m.SeasonID,
			PlaylistID:          m.PlaylistID,
			MapID:               m.MapID,
			PlayerMatchDuration: FormatDurationISO(m.DurationSeconds),
			Players:             make([]CachedSummarySlot, 0, len(row.Players)),
		}
		if m.StartedAt != nil {
			s.MatchStartDate = &CachedStartDate{ISO8601Date: m.StartedAt.UTC().Format(time.RFC3339)}
		}
		for _, p := range row.Players {
			s.Players = append(s.Players, cachedSlot(p))
		}
		out = append(out, s)
	}
	return out, latest
}

func cachedSlot(p domain.MatchPlayer) CachedSummarySlot {
	slot := CachedSummarySlot{
		PlayerType:   summaryPlayerTypeComputer,
		TeamID:       p.TeamID,
		LeaderID:     p.LeaderID,
		MatchOutcome: p.Outcome,
		PlayerIndex:  p.PlayerIndex,
	}
	if p.IsHuman == nil || !*p.IsHuman {
		return slot
	}
	name := ""
	if p.PlayerName != nil {
		name = *p.PlayerName
	}
	slot.PlayerType = summaryPlayerTypeHuman
	slot.HumanPlayerID = &CachedSummaryGamertag{Gamertag: name}
	slot.Gamertag = &name
	slot.PlayerID = &name
	return slot
}
