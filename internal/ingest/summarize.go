package ingest

import (
	"sort"

	"github.com/osse101/statsgate/internal/domain"
)

type joinInfo struct {
	teamID     *int
	playerType *int
}

// SummarizeEvents folds an event stream into one summary per player, sorted by
// player index. The result depends only on the input so re-ingesting the same
// stream always produces the same rows.
func SummarizeEvents(matchID string, events []Event) []domain.MatchEventSummary {
	joined := make(map[int]joinInfo)
	for _, ev := range events {
		j, ok := ev.(PlayerJoined)
		if !ok || !j.HasPlayer {
			continue
		}
		joined[j.PlayerIndex] = joinInfo{teamID: j.TeamID, playerType: j.PlayerType}
	}

	summaries := make(map[int]*domain.MatchEventSummary)
	// Building instance id to its current building type. Completion and upgrade
	// events only carry the instance, and the type changes across upgrades.
	instances := make(map[int64]string)

	for _, ev := range events {
		if q, ok := ev.(BuildingQueued); ok && q.InstanceID != nil && q.BuildingID != "" {
			instances[*q.InstanceID] = q.BuildingID
		}

		base := ev.Base()
		if !base.HasTime || !base.HasPlayer {
			continue
		}
		row := summaryFor(summaries, matchID, base.PlayerIndex, joined)
		extendWindow(row, base.TimeMs)

		switch e := ev.(type) {
		case BuildingCompleted:
			row.BuildingsCompleted++
			objectID := e.BuildingID
			if e.InstanceID != nil {
				if current := instances[*e.InstanceID]; current != "" {
					objectID = current
				}
			}
			appendBuildOrder(row, base.TimeMs, domain.BuildOrderBuilding, objectID, e.InstanceID)
		case BuildingUpgraded:
			row.BuildingUpgrades++
			if e.InstanceID != nil && e.NewBuildingID != "" {
				instances[*e.InstanceID] = e.NewBuildingID
			}
			appendBuildOrder(row, base.TimeMs, domain.BuildOrderUpgrade, e.NewBuildingID, e.InstanceID)
		case UnitTrained:
			row.UnitsTrained++
			appendBuildOrder(row, base.TimeMs, domain.BuildOrderUnit, e.SquadID, e.InstanceID)
		case TechResearched:
			row.UnitUpgrades++
			appendBuildOrder(row, base.TimeMs, domain.BuildOrderUnitUpgrade, e.TechID, e.ResearcherInstanceID)
		case LeaderPowerCast:
			row.LeaderPowersCast++
		case UnitPromoted:
			row.VeterancyPromotions++
		}
	}

	// Joined players without qualifying events still get a row, except empty slots.
	for idx, info := range joined {
		if info.playerType != nil && *info.playerType == domain.PlayerTypeNone {
			continue
		}
		if _, ok := summaries[idx]; ok {
			continue
		}
		summaries[idx] = newSummary(matchID, idx, info.teamID)
	}

	out := make([]domain.MatchEventSummary, 0, len(summaries))
	for _, row := range summaries {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerIndex < out[j].PlayerIndex })
	return out
}

func newSummary(matchID string, idx int, teamID *int) *domain.MatchEventSummary {
	return &domain.MatchEventSummary{
		MatchID:     matchID,
		PlayerIndex: idx,
		TeamID:      teamID,
		BuildOrder:  []domain.BuildOrderEntry{},
	}
}

func summaryFor(m map[int]*domain.MatchEventSummary, matchID string, idx int, joined map[int]joinInfo) *domain.MatchEventSummary {
	if row, ok := m[idx]; ok {
		return row
	}
	row := newSummary(matchID, idx, joined[idx].teamID)
	m[idx] = row
	return row
}

func extendWindow(row *domain.MatchEventSummary, ms int64) {
	if row.FirstEventMs == nil || ms < *row.FirstEventMs {
		row.FirstEventMs = domain.Ptr(ms)
	}
	if row.LastEventMs == nil || ms > *row.LastEventMs {
		row.LastEventMs = domain.Ptr(ms)
	}
}

// appendBuildOrder adds an entry unless the player already has BuildOrderLimit
// entries. The cap spans all kinds combined.
func appendBuildOrder(row *domain.MatchEventSummary, ms int64, kind domain.BuildOrderKind, objectID string, instanceID *int64) {
	if len(row.BuildOrder) >= domain.BuildOrderLimit {
		return
	}
	row.BuildOrder = append(row.BuildOrder, domain.BuildOrderEntry{
		TimeMs:     ms,
		Kind:       kind,
		ObjectID:   objectID,
		InstanceID: instanceID,
	})
}
