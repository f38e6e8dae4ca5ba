package ingest

import (
	"bytes"
	"encoding/json"
)

// Event names emitted by the Halo Wars 2 match events endpoint.
const (
	EventPlayerJoined      = "PlayerJoinedMatch"
	EventBuildingQueued    = "BuildingConstructionQueued"
	EventBuildingCompleted = "BuildingConstructionCompleted"
	EventBuildingUpgraded  = "BuildingUpgraded"
	EventUnitTrained       = "UnitTrained"
	EventTechResearched    = "TechResearched"
	EventLeaderPowerCast   = "LeaderPowerCast"
	EventUnitPromoted      = "UnitPromoted"
)

// Event is one decoded match event. Concrete types are the variants below;
// anything with an unrecognized EventName decodes to OtherEvent.
type Event interface {
	Base() EventBase
}

// EventBase carries the fields every event may have. HasPlayer and HasTime are
// false when the upstream record lacked a numeric value.
type EventBase struct {
	Name        string
	PlayerIndex int
	HasPlayer   bool
	TimeMs      int64
	HasTime     bool
}

func (b EventBase) Base() EventBase { return b }

type PlayerJoined struct {
	EventBase
	TeamID     *int
	PlayerType *int
}

type BuildingQueued struct {
	EventBase
	InstanceID *int64
	BuildingID string
}

type BuildingCompleted struct {
	EventBase
	InstanceID *int64
	BuildingID string
}

type BuildingUpgraded struct {
	EventBase
	InstanceID    *int64
	NewBuildingID string
}

type UnitTrained struct {
	EventBase
	InstanceID *int64
	SquadID    string
}

type TechResearched struct {
	EventBase
	ResearcherInstanceID *int64
	TechID               string
}

type LeaderPowerCast struct {
	EventBase
}

type UnitPromoted struct {
	EventBase
}

// OtherEvent is any event the summarizer does not dispatch on. It still counts
// toward a player's event window.
type OtherEvent struct {
	EventBase
}

// EventStream is the decoded events payload.
type EventStream struct {
	Events     []Event
	IsComplete bool
}

// DecodeEventStream decodes an events payload. The usual shape is an object
// carrying GameEvents and IsCompleteSetOfEvents; a bare array is read as the
// event list with completeness unknown. Any other shape yields no events.
func DecodeEventStream(payload json.RawMessage) EventStream {
	if trimmed := bytes.TrimSpace(payload); len(trimmed) > 0 && trimmed[0] == '[' {
		return EventStream{Events: DecodeEvents(elements(trimmed))}
	}
	rec, ok := decodeRecord(payload)
	if !ok {
		return EventStream{}
	}
	complete, _ := rec.boolean("IsCompleteSetOfEvents")

	var items []json.RawMessage
	if raw, ok := rec["GameEvents"]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			items = nil
		}
	}
	return EventStream{Events: DecodeEvents(items), IsComplete: complete}
}

// DecodeEvents converts raw event records into typed events. Records that are
// not JSON objects are dropped.
func DecodeEvents(raw []json.RawMessage) []Event {
	events := make([]Event, 0, len(raw))
	for _, item := range raw {
		rec, ok := decodeRecord(item)
		if !ok {
			continue
		}
		events = append(events, decodeEvent(rec))
	}
	return events
}

func decodeEvent(rec record) Event {
	base := EventBase{Name: rec.text("EventName")}
	if idx := rec.intPtr("PlayerIndex"); idx != nil {
		base.PlayerIndex = *idx
		base.HasPlayer = true
	}
	if ms, ok := rec.integer("TimeSinceStartMilliseconds"); ok {
		base.TimeMs = ms
		base.HasTime = true
	}

	switch base.Name {
	case EventPlayerJoined:
		return PlayerJoined{EventBase: base, TeamID: rec.intPtr("TeamId"), PlayerType: rec.intPtr("PlayerType")}
	case EventBuildingQueued:
		return BuildingQueued{EventBase: base, InstanceID: int64Ptr(rec, "InstanceId"), BuildingID: rec.text("BuildingId")}
	case EventBuildingCompleted:
		return BuildingCompleted{EventBase: base, InstanceID: int64Ptr(rec, "InstanceId"), BuildingID: rec.text("BuildingId")}
	case EventBuildingUpgraded:
		return BuildingUpgraded{EventBase: base, InstanceID: int64Ptr(rec, "InstanceId"), NewBuildingID: rec.text("NewBuildingId")}
	case EventUnitTrained:
		return UnitTrained{EventBase: base, InstanceID: int64Ptr(rec, "InstanceId"), SquadID: rec.text("SquadId")}
	case EventTechResearched:
		return TechResearched{EventBase: base, ResearcherInstanceID: int64Ptr(rec, "ResearcherInstanceId"), TechID: rec.text("TechId")}
	case EventLeaderPowerCast:
		return LeaderPowerCast{EventBase: base}
	case EventUnitPromoted:
		return UnitPromoted{EventBase: base}
	default:
		return OtherEvent{EventBase: base}
	}
}

func int64Ptr(rec record, key string) *int64 {
	v, ok := rec.integer(key)
	if !ok {
		return nil
	}
	return &v
}
