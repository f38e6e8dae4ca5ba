package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/statsgate/internal/domain"
)

func newMatchID() string {
	return "match-" + uuid.NewString()
}

func summaryBatch(playerID string, now time.Time, matches []domain.Match, players []domain.MatchPlayer) domain.MatchSummaryBatch {
	searched := domain.Player{PlayerID: playerID, Gamertag: playerID, LastSeenAt: now}
	return domain.MatchSummaryBatch{
		Searched: searched,
		Search:   domain.SearchEvent{SearchID: uuid.NewString(), PlayerID: playerID, SearchedAt: now, MatchCount: len(matches)},
		Matches:  matches,
		Players:  players,
		Humans:   []domain.Player{searched},
	}
}

func TestCacheRepository_Stats(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewCacheRepository(testPool)
	playerID := "stats-" + uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("miss", func(t *testing.T) {
		_, err := repo.LoadStats(ctx, playerID)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("round trip keeps payload verbatim", func(t *testing.T) {
		payload := []byte(`{"Results":[ {"Id":"b"}, {"Id":"a"} ],"Extra":1.50}`)
		player := domain.Player{PlayerID: playerID, Gamertag: "Stats Player", LastSeenAt: now}
		require.NoError(t, repo.StoreStats(ctx, player, payload, now))

		cached, err := repo.LoadStats(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, string(payload), string(cached.Payload))
		assert.True(t, cached.FetchedAt.Equal(now))

		later := now.Add(time.Minute)
		require.NoError(t, repo.StoreStats(ctx, player, []byte(`{"v":2}`), later))
		cached, err = repo.LoadStats(ctx, playerID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(cached.Payload))
		assert.True(t, cached.FetchedAt.Equal(later))
	})

	t.Run("unparseable payload is a miss", func(t *testing.T) {
		broken := "stats-" + uuid.NewString()
		_, err := testPool.Exec(ctx,
			`INSERT INTO player_stats_cache (player_id, gamertag, payload_json, fetched_at) VALUES ($1, $1, '{oops', now())`, broken)
		require.NoError(t, err)

		_, err = repo.LoadStats(ctx, broken)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})
}

func TestCacheRepository_MatchSummariesAndDetail(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewCacheRepository(testPool)
	playerID := "searcher-" + uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)

	older := now.Add(-2 * time.Hour)
	newer := now.Add(-time.Hour)
	oldMatch, newMatch, undated := newMatchID(), newMatchID(), newMatchID()
	aiKey := domain.AIPlayerKey(domain.Ptr(2), 1)

	matches := []domain.Match{
		{MatchID: oldMatch, StartedAt: &older, DurationSeconds: domain.Ptr(600), MapID: domain.Ptr("map-a"), IngestedAt: now},
		{MatchID: newMatch, StartedAt: &newer, IngestedAt: now},
		{MatchID: undated, IngestedAt: now},
	}
	var players []domain.MatchPlayer
	for _, m := range matches {
		players = append(players,
			domain.MatchPlayer{MatchID: m.MatchID, PlayerKey: playerID, PlayerID: domain.Ptr(playerID), PlayerName: domain.Ptr("Searcher"),
				IsHuman: domain.Ptr(true), TeamID: domain.Ptr(1), PlayerIndex: domain.Ptr(0)},
			domain.MatchPlayer{MatchID: m.MatchID, PlayerKey: aiKey, PlayerName: domain.Ptr("AI"),
				IsHuman: domain.Ptr(false), TeamID: domain.Ptr(2), PlayerIndex: domain.Ptr(1)},
		)
	}
	require.NoError(t, repo.StoreMatchSummaries(ctx, summaryBatch(playerID, now, matches, players)))

	t.Run("newest first with rosters", func(t *testing.T) {
		cached, err := repo.LoadMatches(ctx, playerID, 30)
		require.NoError(t, err)
		require.Len(t, cached, 3)
		assert.Equal(t, newMatch, cached[0].Match.MatchID)
		assert.Equal(t, oldMatch, cached[1].Match.MatchID)
		assert.Equal(t, undated, cached[2].Match.MatchID)
		assert.Nil(t, cached[2].Match.StartedAt)
		assert.Equal(t, domain.Ptr(600), cached[1].Match.DurationSeconds)

		require.Len(t, cached[0].Players, 2)
		assert.Equal(t, playerID, cached[0].Players[0].PlayerKey)
		assert.Equal(t, aiKey, cached[0].Players[1].PlayerKey)
		assert.Nil(t, cached[0].Players[0].UnitsDestroyed)

		limited, err := repo.LoadMatches(ctx, playerID, 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, newMatch, limited[0].Match.MatchID)
	})

	t.Run("unknown player has no matches", func(t *testing.T) {
		cached, err := repo.LoadMatches(ctx, "nobody-"+uuid.NewString(), 30)
		require.NoError(t, err)
		assert.Empty(t, cached)
	})

	t.Run("detail fills counters and list refresh keeps them", func(t *testing.T) {
		detail := domain.MatchDetail{
			MatchID:    oldMatch,
			IngestedAt: now,
			Players: []domain.MatchPlayer{
				{MatchID: oldMatch, PlayerKey: playerID, PlayerID: domain.Ptr(playerID), IsHuman: domain.Ptr(true), TeamID: domain.Ptr(1),
					LeaderID: domain.Ptr(4), UnitsDestroyed: domain.Ptr(12), UnitsLost: domain.Ptr(3), LeaderPowersUsed: domain.Ptr(5), PlayerIndex: domain.Ptr(0)},
				{MatchID: oldMatch, PlayerKey: aiKey, PlayerName: domain.Ptr("AI 7"), IsHuman: domain.Ptr(false), TeamID: domain.Ptr(2),
					UnitsDestroyed: domain.Ptr(3), UnitsLost: domain.Ptr(12), LeaderPowersUsed: domain.Ptr(0), PlayerIndex: domain.Ptr(1)},
			},
			Teams: []domain.MatchTeam{
				{MatchID: oldMatch, TeamID: 1, UnitsDestroyed: 12, UnitsLost: 3, LeaderPowersUsed: 5},
				{MatchID: oldMatch, TeamID: 2, UnitsDestroyed: 3, UnitsLost: 12},
			},
			LeaderPowers: []domain.PlayerLeaderPower{{MatchID: oldMatch, PlayerKey: playerID, PowerID: "p1", TimesCast: 5}},
			Humans:       []domain.Player{{PlayerID: playerID, Gamertag: "Searcher", LastSeenAt: now}},
		}
		raw := &domain.RawPayload{MatchID: oldMatch, Payload: json.RawMessage(`{"Players":[]}`), FetchedAt: now}
		require.NoError(t, repo.StoreMatchDetail(ctx, detail, raw))

		// A later list refresh carries no counters and a different map.
		refreshed := []domain.Match{{MatchID: oldMatch, MapID: domain.Ptr("map-b"), IngestedAt: now.Add(time.Minute)}}
		refreshedPlayers := []domain.MatchPlayer{
			{MatchID: oldMatch, PlayerKey: playerID, PlayerID: domain.Ptr(playerID), PlayerName: domain.Ptr("Searcher"),
				IsHuman: domain.Ptr(true), TeamID: domain.Ptr(1), PlayerIndex: domain.Ptr(0)},
		}
		require.NoError(t, repo.StoreMatchSummaries(ctx, summaryBatch(playerID, now, refreshed, refreshedPlayers)))

		cached, err := repo.LoadMatches(ctx, playerID, 30)
		require.NoError(t, err)
		var found *domain.CachedMatch
		for i := range cached {
			if cached[i].Match.MatchID == oldMatch {
				found = &cached[i]
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, "map-b", *found.Match.MapID)
		assert.Equal(t, 600, *found.Match.DurationSeconds, "unknown duration must not erase the stored one")
		require.NotNil(t, found.Match.StartedAt)

		human := found.Players[0]
		assert.Equal(t, 12, *human.UnitsDestroyed)
		assert.Equal(t, 3, *human.UnitsLost)
		assert.Equal(t, 5, *human.LeaderPowersUsed)
		assert.Equal(t, 4, *human.LeaderID)
		assert.Equal(t, "AI 7", *found.Players[1].PlayerName)

		var teamCount, powerCount int
		require.NoError(t, testPool.QueryRow(ctx, `SELECT count(*) FROM match_teams WHERE match_id = $1`, oldMatch).Scan(&teamCount))
		require.NoError(t, testPool.QueryRow(ctx, `SELECT count(*) FROM player_leader_powers WHERE match_id = $1`, oldMatch).Scan(&powerCount))
		assert.Equal(t, 2, teamCount)
		assert.Equal(t, 1, powerCount)

		var storedRaw string
		require.NoError(t, testPool.QueryRow(ctx, `SELECT payload_json FROM raw_match_payloads WHERE match_id = $1`, oldMatch).Scan(&storedRaw))
		assert.Equal(t, `{"Players":[]}`, storedRaw)
	})

	t.Run("second detail overwrites counters", func(t *testing.T) {
		detail := domain.MatchDetail{
			MatchID:    oldMatch,
			IngestedAt: now,
			Players: []domain.MatchPlayer{
				{MatchID: oldMatch, PlayerKey: playerID, UnitsDestroyed: domain.Ptr(20), UnitsLost: domain.Ptr(4), LeaderPowersUsed: domain.Ptr(6)},
			},
		}
		require.NoError(t, repo.StoreMatchDetail(ctx, detail, nil))

		var destroyed int
		var name string
		require.NoError(t, testPool.QueryRow(ctx,
			`SELECT units_destroyed, player_name FROM match_players WHERE match_id = $1 AND player_key = $2`,
			oldMatch, playerID).Scan(&destroyed, &name))
		assert.Equal(t, 20, destroyed)
		assert.Equal(t, "Searcher", name)
	})
}

func TestCacheRepository_StoreMatchSummariesIsAtomic(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewCacheRepository(testPool)
	playerID := "atomic-" + uuid.NewString()
	now := time.Now().UTC()
	matchID := newMatchID()

	batch := summaryBatch(playerID, now, []domain.Match{{MatchID: matchID, IngestedAt: now}}, nil)
	batch.Search.SearchID = "not-a-uuid"

	require.Error(t, repo.StoreMatchSummaries(ctx, batch))

	var count int
	require.NoError(t, testPool.QueryRow(ctx, `SELECT count(*) FROM matches WHERE match_id = $1`, matchID).Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, testPool.QueryRow(ctx, `SELECT count(*) FROM players WHERE player_id = $1`, playerID).Scan(&count))
	assert.Zero(t, count)
}

func TestCacheRepository_MatchEvents(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewCacheRepository(testPool)
	matchID := newMatchID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("raw events miss", func(t *testing.T) {
		_, err := repo.LoadRawEvents(ctx, matchID)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	first := []domain.MatchEventSummary{
		{MatchID: matchID, PlayerIndex: 0, TeamID: domain.Ptr(1), UnitsTrained: 2,
			BuildOrder:   []domain.BuildOrderEntry{{TimeMs: 10, Kind: domain.BuildOrderUnit, ObjectID: "grunt"}},
			FirstEventMs: domain.Ptr(int64(10)), LastEventMs: domain.Ptr(int64(20))},
		{MatchID: matchID, PlayerIndex: 1, TeamID: domain.Ptr(2), BuildOrder: []domain.BuildOrderEntry{}},
	}
	raw := &domain.RawPayload{MatchID: matchID, Payload: json.RawMessage(`{"GameEvents":[],"IsCompleteSetOfEvents":true}`), IsComplete: true, FetchedAt: now}
	require.NoError(t, repo.StoreMatchEvents(ctx, matchID, first, raw, now))

	t.Run("raw events round trip", func(t *testing.T) {
		cached, err := repo.LoadRawEvents(ctx, matchID)
		require.NoError(t, err)
		assert.Equal(t, string(raw.Payload), string(cached.Payload))
		assert.True(t, cached.FetchedAt.Equal(now))
	})

	t.Run("empty build order is stored as null", func(t *testing.T) {
		var isNull bool
		require.NoError(t, testPool.QueryRow(ctx,
			`SELECT build_order_json IS NULL FROM match_event_summaries WHERE match_id = $1 AND player_index = 1`, matchID).Scan(&isNull))
		assert.True(t, isNull)
	})

	t.Run("recompute replaces counters and keeps team", func(t *testing.T) {
		second := []domain.MatchEventSummary{
			{MatchID: matchID, PlayerIndex: 0, UnitsTrained: 5, BuildOrder: []domain.BuildOrderEntry{}},
		}
		require.NoError(t, repo.StoreMatchEvents(ctx, matchID, second, nil, now.Add(time.Minute)))

		var trained int
		var teamID *int
		var buildOrder []byte
		var first *int64
		require.NoError(t, testPool.QueryRow(ctx,
			`SELECT units_trained, team_id, build_order_json, first_event_ms FROM match_event_summaries WHERE match_id = $1 AND player_index = 0`,
			matchID).Scan(&trained, &teamID, &buildOrder, &first))
		assert.Equal(t, 5, trained)
		assert.Equal(t, domain.Ptr(1), teamID)
		assert.Nil(t, buildOrder)
		assert.Nil(t, first)
	})
}

func TestCacheRepository_ReorderedAISlotsOverwriteInPlace(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewCacheRepository(testPool)
	matchID := newMatchID()
	now := time.Now().UTC()

	aiSlot := func(index int, name string, leader int) domain.MatchPlayer {
		return domain.MatchPlayer{
			MatchID:     matchID,
			PlayerKey:   domain.AIPlayerKey(domain.Ptr(2), index),
			PlayerName:  domain.Ptr(name),
			IsHuman:     domain.Ptr(false),
			TeamID:      domain.Ptr(2),
			LeaderID:    domain.Ptr(leader),
			PlayerIndex: domain.Ptr(index),
		}
	}

	first := domain.MatchDetail{MatchID: matchID, IngestedAt: now,
		Players: []domain.MatchPlayer{aiSlot(1, "AI 7", 3), aiSlot(2, "AI 9", 5)}}
	require.NoError(t, repo.StoreMatchDetail(ctx, first, nil))

	swapped := domain.MatchDetail{MatchID: matchID, IngestedAt: now,
		Players: []domain.MatchPlayer{aiSlot(1, "AI 9", 5), aiSlot(2, "AI 7", 3)}}
	require.NoError(t, repo.StoreMatchDetail(ctx, swapped, nil))

	var count int
	require.NoError(t, testPool.QueryRow(ctx,
		`SELECT count(*) FROM match_players WHERE match_id = $1`, matchID).Scan(&count))
	assert.Equal(t, 2, count, "one row per AI slot")

	var name string
	var leader int
	require.NoError(t, testPool.QueryRow(ctx,
		`SELECT player_name, leader_id FROM match_players WHERE match_id = $1 AND player_key = 'ai:2:1'`,
		matchID).Scan(&name, &leader))
	assert.Equal(t, "AI 9", name)
	assert.Equal(t, 5, leader)
}
