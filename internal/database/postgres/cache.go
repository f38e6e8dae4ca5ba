package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/statsgate/internal/database/generated"
	"github.com/osse101/statsgate/internal/domain"
	"github.com/osse101/statsgate/internal/logger"
	"github.com/osse101/statsgate/internal/repository"
)

var _ repository.MatchCache = (*CacheRepository)(nil)

// CacheRepository persists normalized Halo Wars 2 rows and raw payloads in PostgreSQL.
// Every write runs in a single transaction.
type CacheRepository struct {
	db *pgxpool.Pool
	q  *generated.Queries
}

// NewCacheRepository creates a new CacheRepository
func NewCacheRepository(db *pgxpool.Pool) *CacheRepository {
	return &CacheRepository{db: db, q: generated.New(db)}
}

func (r *CacheRepository) StoreStats(ctx context.Context, player domain.Player, payload []byte, fetchedAt time.Time) error {
	return inTx(ctx, r.db, r.q, func(q *generated.Queries) error {
		if err := upsertPlayer(ctx, q, player); err != nil {
			return err
		}
		err := q.UpsertStatsCache(ctx, generated.UpsertStatsCacheParams{
			PlayerID:    player.PlayerID,
			Gamertag:    player.Gamertag,
			PayloadJson: string(payload),
			FetchedAt:   timestamptz(fetchedAt),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToStoreStats, err)
		}
		return nil
	})
}

func (r *CacheRepository) LoadStats(ctx context.Context, playerID string) (*domain.CachedPayload, error) {
	row, err := r.q.GetStatsCache(ctx, playerID)
	return cachedPayload(ctx, playerID, row.PayloadJson, row.FetchedAt, err, ErrMsgFailedToGetCachedStats)
}

func (r *CacheRepository) StoreMatchSummaries(ctx context.Context, b domain.MatchSummaryBatch) error {
	return inTx(ctx, r.db, r.q, func(q *generated.Queries) error {
		if err := upsertPlayer(ctx, q, b.Searched); err != nil {
			return err
		}
		for _, h := range b.Humans {
			if err := upsertPlayer(ctx, q, h); err != nil {
				return err
			}
		}

		searchID, err := uuid.Parse(b.Search.SearchID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgInvalidSearchID, err)
		}
		err = q.InsertSearchEvent(ctx, generated.InsertSearchEventParams{
			SearchID:   searchID,
			PlayerID:   b.Search.PlayerID,
			SearchedAt: timestamptz(b.Search.SearchedAt),
			MatchCount: int32(b.Search.MatchCount),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToStoreSearch, err)
		}

		for _, m := range b.Matches {
			if err := q.UpsertMatch(ctx, matchParams(m)); err != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToStoreMatch, err)
			}
		}
		for _, p := range b.Players {
			if err := q.UpsertListMatchPlayer(ctx, matchPlayerParams(p)); err != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToStoreMatchPlayer, err)
			}
		}
		return nil
	})
}

func (r *CacheRepository) StoreMatchDetail(ctx context.Context, d domain.MatchDetail, raw *domain.RawPayload) error {
	return inTx(ctx, r.db, r.q, func(q *generated.Queries) error {
		err := q.TouchMatch(ctx, generated.TouchMatchParams{MatchID: d.MatchID, IngestedAt: timestamptz(d.IngestedAt)})
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToStoreMatch, err)
		}
		if raw != nil {
			err := q.UpsertRawMatch(ctx, generated.UpsertRawMatchParams{
				MatchID:     raw.MatchID,
				PayloadJson: string(raw.Payload),
				FetchedAt:   timestamptz(raw.FetchedAt),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToStoreRawPayload, err)
			}
		}
		for _, h := range d.Humans {
			if err := upsertPlayer(ctx, q, h); err != nil {
				return err
			}
		}
		for _, p := range d.Players {
			params := generated.UpsertDetailMatchPlayerParams(matchPlayerParams(p))
			if err := q.UpsertDetailMatchPlayer(ctx, params); err != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToStoreMatchPlayer, err)
			}
		}
		for _, t := range d.Teams {
			err := q.UpsertMatchTeam(ctx, generated.UpsertMatchTeamParams{
				MatchID:          t.MatchID,
				TeamID:           int32(t.TeamID),
				Outcome:          nullInt4(t.Outcome),
				UnitsDestroyed:   int4(t.UnitsDestroyed),
				UnitsLost:        int4(t.UnitsLost),
				LeaderPowersUsed: int4(t.LeaderPowersUsed),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToStoreMatchTeam, err)
			}
		}
		for _, lp := range d.LeaderPowers {
			err := q.UpsertLeaderPower(ctx, generated.UpsertLeaderPowerParams{
				MatchID:   lp.MatchID,
				PlayerKey: lp.PlayerKey,
				PowerID:   lp.PowerID,
				TimesCast: int32(lp.TimesCast),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToStoreLeaderPower, err)
			}
		}
		return nil
	})
}

func (r *CacheRepository) StoreMatchEvents(ctx context.Context, matchID string, summaries []domain.MatchEventSummary, raw *domain.RawPayload, ingestedAt time.Time) error {
	return inTx(ctx, r.db, r.q, func(q *generated.Queries) error {
		if raw != nil {
			err := q.UpsertRawEvents(ctx, generated.UpsertRawEventsParams{
				MatchID:     raw.MatchID,
				PayloadJson: string(raw.Payload),
				IsComplete:  raw.IsComplete,
				FetchedAt:   timestamptz(raw.FetchedAt),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToStoreRawPayload, err)
			}
		}
		for _, s := range summaries {
			var buildOrder []byte
			if len(s.BuildOrder) > 0 {
				encoded, err := json.Marshal(s.BuildOrder)
				if err != nil {
					return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalBuildOrder, err)
				}
				buildOrder = encoded
			}
			err := q.UpsertEventSummary(ctx, generated.UpsertEventSummaryParams{
				MatchID:             matchID,
				PlayerIndex:         int32(s.PlayerIndex),
				TeamID:              nullInt4(s.TeamID),
				UnitsTrained:        int32(s.UnitsTrained),
				BuildingsCompleted:  int32(s.BuildingsCompleted),
				BuildingUpgrades:    int32(s.BuildingUpgrades),
				UnitUpgrades:        int32(s.UnitUpgrades),
				LeaderPowersCast:    int32(s.LeaderPowersCast),
				VeterancyPromotions: int32(s.VeterancyPromotions),
				BuildOrderJson:      buildOrder,
				FirstEventMs:        nullInt8(s.FirstEventMs),
				LastEventMs:         nullInt8(s.LastEventMs),
				IngestedAt:          timestamptz(ingestedAt),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToStoreEventSummary, err)
			}
		}
		return nil
	})
}

func (r *CacheRepository) LoadRawEvents(ctx context.Context, matchID string) (*domain.CachedPayload, error) {
	row, err := r.q.GetRawEvents(ctx, matchID)
	return cachedPayload(ctx, matchID, row.PayloadJson, row.FetchedAt, err, ErrMsgFailedToGetRawEvents)
}

// LoadMatches returns the most recent matches the player took part in, newest
// first, each with its full roster.
func (r *CacheRepository) LoadMatches(ctx context.Context, playerID string, limit int) ([]domain.CachedMatch, error) {
	rows, err := r.q.GetPlayerMatches(ctx, generated.GetPlayerMatchesParams{
		PlayerID: pgtype.Text{String: playerID, Valid: true},
		Limit:    int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryPlayerMatches, err)
	}
	matches := make([]domain.CachedMatch, 0, len(rows))
	if len(rows) == 0 {
		return matches, nil
	}

	ids := make([]string, len(rows))
	byID := make(map[string]int, len(rows))
	for i, row := range rows {
		matches = append(matches, domain.CachedMatch{Match: toDomainMatch(row), Players: []domain.MatchPlayer{}})
		ids[i] = row.MatchID
		byID[row.MatchID] = i
	}

	players, err := r.q.GetMatchPlayersByMatchIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryMatchPlayers, err)
	}
	for _, p := range players {
		i := byID[p.MatchID]
		matches[i].Players = append(matches[i].Players, toDomainMatchPlayer(p))
	}
	return matches, nil
}

// cachedPayload turns a (payload_json, fetched_at) lookup into a cache entry.
// A missing row or a payload that no longer parses is a cache miss.
func cachedPayload(ctx context.Context, key, payload string, fetchedAt pgtype.Timestamptz, err error, errMsg string) (*domain.CachedPayload, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	if !json.Valid([]byte(payload)) {
		logger.FromContext(ctx).Warn(LogMsgDiscardingInvalidPayload, "key", key)
		return nil, domain.ErrCacheMiss
	}
	return &domain.CachedPayload{Payload: json.RawMessage(payload), FetchedAt: fetchedAt.Time}, nil
}

func upsertPlayer(ctx context.Context, q *generated.Queries, p domain.Player) error {
	err := q.UpsertPlayer(ctx, generated.UpsertPlayerParams{
		PlayerID:   p.PlayerID,
		Gamertag:   p.Gamertag,
		LastSeenAt: timestamptz(p.LastSeenAt),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToStorePlayer, err)
	}
	return nil
}

func matchParams(m domain.Match) generated.UpsertMatchParams {
	return generated.UpsertMatchParams{
		MatchID:         m.MatchID,
		MatchType:       nullInt4(m.MatchType),
		GameMode:        nullInt4(m.GameMode),
		SeasonID:        nullText(m.SeasonID),
		PlaylistID:      nullText(m.PlaylistID),
		MapID:           nullText(m.MapID),
		StartedAt:       nullTimestamptz(m.StartedAt),
		DurationSeconds: nullInt4(m.DurationSeconds),
		TeamSize:        nullInt4(m.TeamSize),
		IngestedAt:      timestamptz(m.IngestedAt),
	}
}

func matchPlayerParams(p domain.MatchPlayer) generated.UpsertListMatchPlayerParams {
	return generated.UpsertListMatchPlayerParams{
		MatchID:          p.MatchID,
		PlayerKey:        p.PlayerKey,
		PlayerID:         nullText(p.PlayerID),
		PlayerName:       nullText(p.PlayerName),
		IsHuman:          nullBool(p.IsHuman),
		TeamID:           nullInt4(p.TeamID),
		LeaderID:         nullInt4(p.LeaderID),
		Outcome:          nullInt4(p.Outcome),
		UnitsDestroyed:   nullInt4(p.UnitsDestroyed),
		UnitsLost:        nullInt4(p.UnitsLost),
		LeaderPowersUsed: nullInt4(p.LeaderPowersUsed),
		PlayerIndex:      nullInt4(p.PlayerIndex),
	}
}

func toDomainMatch(m generated.Match) domain.Match {
	return domain.Match{
		MatchID:         m.MatchID,
		MatchType:       ptrInt(m.MatchType),
		GameMode:        ptrInt(m.GameMode),
		SeasonID:        textToPtr(m.SeasonID),
		PlaylistID:      textToPtr(m.PlaylistID),
		MapID:           textToPtr(m.MapID),
		StartedAt:       ptrTime(m.StartedAt),
		DurationSeconds: ptrInt(m.DurationSeconds),
		TeamSize:        ptrInt(m.TeamSize),
		IngestedAt:      m.IngestedAt.Time,
	}
}

func toDomainMatchPlayer(p generated.MatchPlayer) domain.MatchPlayer {
	return domain.MatchPlayer{
		MatchID:          p.MatchID,
		PlayerKey:        p.PlayerKey,
		PlayerID:         textToPtr(p.PlayerID),
		PlayerName:       textToPtr(p.PlayerName),
		IsHuman:          boolToPtr(p.IsHuman),
		TeamID:           ptrInt(p.TeamID),
		LeaderID:         ptrInt(p.LeaderID),
		Outcome:          ptrInt(p.Outcome),
		UnitsDestroyed:   ptrInt(p.UnitsDestroyed),
		UnitsLost:        ptrInt(p.UnitsLost),
		LeaderPowersUsed: ptrInt(p.LeaderPowersUsed),
		PlayerIndex:      ptrInt(p.PlayerIndex),
	}
}
