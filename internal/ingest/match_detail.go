package ingest

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/osse101/statsgate/internal/domain"
)

// NormalizeMatchDetail derives participant, team and leader power rows from a
// match detail payload. Players may be an array or an object keyed by slot.
func NormalizeMatchDetail(matchID string, payload json.RawMessage, now time.Time) domain.MatchDetail {
	detail := domain.MatchDetail{MatchID: matchID, IngestedAt: now}
	rec, ok := decodeRecord(payload)
	if !ok {
		return detail
	}

	teams := make(map[int]*domain.MatchTeam)
	var teamOrder []int

	for index, raw := range rec.list("Players") {
		prec, ok := decodeRecord(raw)
		if !ok {
			prec = record{}
		}
		teamID := prec.intPtr("TeamId")
		humanID := humanIDFromDetail(prec)
		destroyed, lost := sumUnitStats(prec)
		powers := leaderPowers(prec)
		powerCount := 0
		for _, p := range powers {
			powerCount += p.times
		}

		mp := domain.MatchPlayer{
			MatchID:          matchID,
			TeamID:           teamID,
			LeaderID:         prec.intPtr("LeaderId"),
			Outcome:          prec.intPtr("MatchOutcome"),
			UnitsDestroyed:   domain.Ptr(destroyed),
			UnitsLost:        domain.Ptr(lost),
			LeaderPowersUsed: domain.Ptr(powerCount),
			PlayerIndex:      domain.Ptr(index),
		}
		if pi := prec.intPtr("PlayerIndex"); pi != nil {
			mp.PlayerIndex = pi
		}

		if humanID != "" {
			id := domain.NormalizePlayerID(humanID)
			mp.PlayerKey = id
			mp.PlayerID = &id
			mp.PlayerName = domain.Ptr(humanID)
			mp.IsHuman = domain.Ptr(true)
			detail.Humans = append(detail.Humans, domain.Player{PlayerID: id, Gamertag: humanID, LastSeenAt: now})
		} else {
			mp.PlayerKey = domain.AIPlayerKey(teamID, index)
			mp.PlayerName = domain.Ptr(computerName(prec))
			mp.IsHuman = domain.Ptr(false)
		}
		detail.Players = append(detail.Players, mp)

		for _, p := range powers {
			detail.LeaderPowers = append(detail.LeaderPowers, domain.PlayerLeaderPower{
				MatchID:   matchID,
				PlayerKey: mp.PlayerKey,
				PowerID:   p.id,
				TimesCast: p.times,
			})
		}

		if teamID == nil {
			continue
		}
		team, ok := teams[*teamID]
		if !ok {
			team = &domain.MatchTeam{MatchID: matchID, TeamID: *teamID}
			teams[*teamID] = team
			teamOrder = append(teamOrder, *teamID)
		}
		team.UnitsDestroyed += destroyed
		team.UnitsLost += lost
		team.LeaderPowersUsed += powerCount
	}

	sort.Ints(teamOrder)
	for _, id := range teamOrder {
		detail.Teams = append(detail.Teams, *teams[id])
	}
	return detail
}

// humanIDFromDetail reads HumanPlayerId as a string or as {Gamertag}, then
// falls back to a top-level Gamertag.
func humanIDFromDetail(rec record) string {
	if raw, ok := rec["HumanPlayerId"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		if obj, ok := decodeRecord(raw); ok {
			if tag := obj.text("Gamertag"); tag != "" {
				return tag
			}
		}
	}
	return rec.text("Gamertag")
}

func computerName(rec record) string {
	isHuman, ok := rec.boolean("IsHuman")
	if !ok || isHuman {
		return "Unknown"
	}
	if id := rec.text("ComputerPlayerId"); id != "" {
		return "AI " + id
	}
	return "AI"
}

func sumUnitStats(rec record) (destroyed, lost int) {
	raw, ok := rec["UnitStats"]
	if !ok {
		return 0, 0
	}
	for _, unit := range elements(raw) {
		u, ok := decodeRecord(unit)
		if !ok {
			continue
		}
		if v, ok := u.integer("TotalDestroyed"); ok {
			destroyed += int(v)
		}
		if v, ok := u.integer("TotalLost"); ok {
			lost += int(v)
		}
	}
	return destroyed, lost
}

type powerUse struct {
	id    string
	times int
}

// leaderPowers returns powers cast at least once, most used first. Values are
// either a bare count or an object with TimesCast or TotalPlays.
func leaderPowers(rec record) []powerUse {
	raw, ok := rec["LeaderPowerStats"]
	if !ok {
		return nil
	}
	var out []powerUse
	for _, e := range orderedEntries(raw) {
		times, ok := castCount(e.Value)
		if !ok || times <= 0 {
			continue
		}
		out = append(out, powerUse{id: e.Key, times: times})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].times > out[j].times })
	return out
}

func castCount(raw json.RawMessage) (int, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n), true
	}
	obj, ok := decodeRecord(raw)
	if !ok {
		return 0, false
	}
	for _, key := range []string{"TimesCast", "TotalPlays"} {
		if v, ok := obj.integer(key); ok {
			return int(v), true
		}
	}
	return 0, false
}
