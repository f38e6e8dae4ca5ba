package hw2

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/statsgate/internal/domain"
	"github.com/osse101/statsgate/internal/halo"
)

// MockFetcher is a scripted upstream.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Get(ctx context.Context, url string, headers map[string]string) (json.RawMessage, error) {
	args := m.Called(ctx, url, headers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return json.RawMessage(args.String(0)), args.Error(1)
}

// MockCache records cache calls.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) StoreStats(ctx context.Context, player domain.Player, payload []byte, fetchedAt time.Time) error {
	args := m.Called(ctx, player, string(payload), fetchedAt)
	return args.Error(0)
}

func (m *MockCache) LoadStats(ctx context.Context, playerID string) (*domain.CachedPayload, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CachedPayload), args.Error(1)
}

func (m *MockCache) StoreMatchSummaries(ctx context.Context, batch domain.MatchSummaryBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockCache) LoadMatches(ctx context.Context, playerID string, limit int) ([]domain.CachedMatch, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CachedMatch), args.Error(1)
}

func (m *MockCache) StoreMatchDetail(ctx context.Context, detail domain.MatchDetail, raw *domain.RawPayload) error {
	args := m.Called(ctx, detail, raw)
	return args.Error(0)
}

func (m *MockCache) StoreMatchEvents(ctx context.Context, matchID string, summaries []domain.MatchEventSummary, raw *domain.RawPayload, ingestedAt time.Time) error {
	args := m.Called(ctx, matchID, summaries, raw, ingestedAt)
	return args.Error(0)
}

func (m *MockCache) LoadRawEvents(ctx context.Context, matchID string) (*domain.CachedPayload, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CachedPayload), args.Error(1)
}

// MockMetadata serves canned name maps.
type MockMetadata struct {
	mock.Mock
}

func (m *MockMetadata) Names(ctx context.Context, kind halo.MetadataKind) (halo.NameMap, bool, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(halo.NameMap), args.Bool(1), args.Error(2)
}
