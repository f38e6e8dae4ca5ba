package repository

import (
	"context"
	"time"

	"github.com/osse101/statsgate/internal/domain"
)

// MatchCache persists upstream payloads and the rows derived from them. Every
// Store method is atomic: either all of its rows are written or none are.
type MatchCache interface {
	// StoreStats upserts the player and their stats payload.
	StoreStats(ctx context.Context, player domain.Player, payload []byte, fetchedAt time.Time) error
	// LoadStats returns the cached stats payload, or domain.ErrCacheMiss.
	LoadStats(ctx context.Context, playerID string) (*domain.CachedPayload, error)

	// StoreMatchSummaries writes a matches-list lookup. Unit and leader power
	// counts already on a participant row are kept.
	StoreMatchSummaries(ctx context.Context, batch domain.MatchSummaryBatch) error
	// LoadMatches returns up to limit matches the player took part in, newest first.
	LoadMatches(ctx context.Context, playerID string, limit int) ([]domain.CachedMatch, error)

	// StoreMatchDetail writes everything derived from a match detail payload.
	// raw is stored only when non-nil.
	StoreMatchDetail(ctx context.Context, detail domain.MatchDetail, raw *domain.RawPayload) error

	// StoreMatchEvents replaces the event summaries of a match. raw is stored
	// only when non-nil.
	StoreMatchEvents(ctx context.Context, matchID string, summaries []domain.MatchEventSummary, raw *domain.RawPayload, ingestedAt time.Time) error
	// LoadRawEvents returns the cached events payload, or domain.ErrCacheMiss.
	LoadRawEvents(ctx context.Context, matchID string) (*domain.CachedPayload, error)
}
