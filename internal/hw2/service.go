package hw2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/statsgate/internal/domain"
	"github.com/osse101/statsgate/internal/halo"
	"github.com/osse101/statsgate/internal/ingest"
	"github.com/osse101/statsgate/internal/logger"
	"github.com/osse101/statsgate/internal/metrics"
	"github.com/osse101/statsgate/internal/repository"
	"github.com/osse101/statsgate/internal/upstream"
)

// Service is the Halo Wars 2 gateway. Every method returns a JSON body ready
// to send, or a *domain.APIError.
type Service interface {
	Stats(ctx context.Context, gamertag string) (json.RawMessage, error)
	Matches(ctx context.Context, req MatchesRequest) (json.RawMessage, error)
	Match(ctx context.Context, matchID string) (json.RawMessage, error)
	Events(ctx context.Context, matchID string) (json.RawMessage, error)
	Metadata(ctx context.Context, kind string) (json.RawMessage, error)
}

// MatchesRequest is the body of a matches lookup. A nil Count means the default.
type MatchesRequest struct {
	Gamertag string `json:"gamertag"`
	Count    *int   `json:"count"`
}

// MetadataSource resolves metadata name maps.
type MetadataSource interface {
	Names(ctx context.Context, kind halo.MetadataKind) (halo.NameMap, bool, error)
}

// Options tunes a Service. The zero value stores no raw payloads.
type Options struct {
	StoreRawMatches bool
	StoreRawEvents  bool
	// Metadata defaults to a halo.MetadataClient over the same fetcher.
	Metadata MetadataSource
	Now      func() time.Time
	NewID    func() string
}

type service struct {
	fetcher   upstream.Fetcher
	store     repository.MatchCache
	endpoints halo.Endpoints
	metadata  MetadataSource
	opts      Options
}

// NewService creates a new Halo Wars 2 gateway service
func NewService(fetcher upstream.Fetcher, store repository.MatchCache, endpoints halo.Endpoints, opts Options) Service {
	if opts.Metadata == nil {
		opts.Metadata = halo.NewMetadataClient(fetcher, endpoints)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &service{
		fetcher:   fetcher,
		store:     store,
		endpoints: endpoints,
		metadata:  opts.Metadata,
		opts:      opts,
	}
}

func (s *service) Stats(ctx context.Context, gamertag string) (json.RawMessage, error) {
	gamertag = strings.TrimSpace(gamertag)
	if err := validateInput(gamertagInput{Gamertag: gamertag}); err != nil {
		return nil, err
	}
	playerID := domain.NormalizePlayerID(gamertag)

	body, err := s.fetcher.Get(ctx, s.endpoints.PlayerStats(gamertag), nil)
	if err != nil {
		return s.payloadFallback(ctx, ResourceStats, playerID, err, s.store.LoadStats)
	}

	now := s.opts.Now()
	player := domain.Player{PlayerID: playerID, Gamertag: gamertag, LastSeenAt: now}
	s.afterWrite(ctx, ResourceStats, s.store.StoreStats(ctx, player, body, now))
	return envelope(body, NewMeta(false, now, ""))
}

func (s *service) Matches(ctx context.Context, req MatchesRequest) (json.RawMessage, error) {
	gamertag := strings.TrimSpace(req.Gamertag)
	if err := validateInput(gamertagInput{Gamertag: gamertag}); err != nil {
		return nil, err
	}
	count := clampCount(req.Count)

	results, err := s.fetchMatchPages(ctx, gamertag, count)
	if err != nil {
		return s.matchesFallback(ctx, gamertag, count, err)
	}

	now := s.opts.Now()
	if len(results) > 0 {
		batch := ingest.NormalizeMatchSummaries(gamertag, results, now)
		batch.Search.SearchID = s.opts.NewID()
		s.afterWrite(ctx, ResourceMatches, s.store.StoreMatchSummaries(ctx, batch))
	}
	logger.FromContext(ctx).Debug(LogMsgMatchesFetched, "gamertag", gamertag, "requested", count, "returned", len(results))

	return encode(matchesResponse{Results: results, Meta: NewMeta(false, now, "")})
}

type matchesResponse struct {
	Results any  `json:"Results"`
	Meta    Meta `json:"_meta"`
}

// fetchMatchPages pages through the player's history until count results are
// collected or the upstream runs out. A failure after the first page ends
// paging with what was collected; a failure on the first page is returned.
func (s *service) fetchMatchPages(ctx context.Context, gamertag string, count int) ([]json.RawMessage, error) {
	collected := make([]json.RawMessage, 0, count)
	start := 0
	for len(collected) < count {
		pageSize := min(count-len(collected), halo.MatchesPageSize)
		body, err := s.fetcher.Get(ctx, s.endpoints.PlayerMatches(gamertag, start, pageSize), nil)
		if err != nil {
			if len(collected) > 0 {
				logger.FromContext(ctx).Warn(LogMsgPartialMatches, "gamertag", gamertag, "collected", len(collected), "error", err)
				break
			}
			return nil, err
		}

		var page struct {
			Results []json.RawMessage `json:"Results"`
		}
		if err := json.Unmarshal(body, &page); err != nil || len(page.Results) == 0 {
			break
		}
		collected = append(collected, page.Results...)
		if len(page.Results) < pageSize {
			break
		}
		start += len(page.Results)
	}
	if len(collected) > count {
		collected = collected[:count]
	}
	return collected, nil
}

func (s *service) matchesFallback(ctx context.Context, gamertag string, count int, cause error) (json.RawMessage, error) {
	apiErr := domain.AsAPIError(cause)
	if !domain.IsCacheFallbackEligible(apiErr.Type) {
		return nil, apiErr
	}
	rows, err := s.store.LoadMatches(ctx, domain.NormalizePlayerID(gamertag), count)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgCacheReadFailed, "resource", ResourceMatches, "error", err)
		return nil, apiErr
	}
	if len(rows) == 0 {
		return nil, apiErr
	}

	summaries, latest := ingest.RebuildMatchSummaries(rows)
	s.servedFromCache(ctx, ResourceMatches, apiErr.Type)
	return encode(matchesResponse{Results: summaries, Meta: NewMeta(true, latest, apiErr.Type)})
}

func (s *service) Match(ctx context.Context, matchID string) (json.RawMessage, error) {
	matchID = strings.TrimSpace(matchID)
	if err := validateInput(matchIDInput{MatchID: matchID}); err != nil {
		return nil, err
	}

	// Match detail has no cache fallback; failures go straight to the caller.
	body, err := s.fetcher.Get(ctx, s.endpoints.MatchDetail(matchID), nil)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now()
	detail := ingest.NormalizeMatchDetail(matchID, body, now)
	var raw *domain.RawPayload
	if s.opts.StoreRawMatches {
		raw = &domain.RawPayload{MatchID: matchID, Payload: body, IsComplete: true, FetchedAt: now}
	}
	logger.FromContext(ctx).Debug(LogMsgMatchDetailNormalize, "match_id", matchID,
		"players", len(detail.Players), "teams", len(detail.Teams), "leader_powers", len(detail.LeaderPowers))
	s.afterWrite(ctx, ResourceMatch, s.store.StoreMatchDetail(ctx, detail, raw))
	return body, nil
}

func (s *service) Events(ctx context.Context, matchID string) (json.RawMessage, error) {
	matchID = strings.TrimSpace(matchID)
	if err := validateInput(matchIDInput{MatchID: matchID}); err != nil {
		return nil, err
	}

	body, err := s.fetcher.Get(ctx, s.endpoints.MatchEvents(matchID), nil)
	if err != nil {
		return s.payloadFallback(ctx, ResourceEvents, matchID, err, s.store.LoadRawEvents)
	}

	now := s.opts.Now()
	stream := ingest.DecodeEventStream(body)
	summaries := ingest.SummarizeEvents(matchID, stream.Events)
	var raw *domain.RawPayload
	if s.opts.StoreRawEvents {
		raw = &domain.RawPayload{MatchID: matchID, Payload: body, IsComplete: stream.IsComplete, FetchedAt: now}
	}
	logger.FromContext(ctx).Debug(LogMsgEventsSummarized, "match_id", matchID,
		"events", len(stream.Events), "players", len(summaries), "complete", stream.IsComplete)
	s.afterWrite(ctx, ResourceEvents, s.store.StoreMatchEvents(ctx, matchID, summaries, raw, now))
	return envelope(body, NewMeta(false, now, ""))
}

func (s *service) Metadata(ctx context.Context, kind string) (json.RawMessage, error) {
	k, ok := halo.ParseMetadataKind(strings.TrimSpace(kind))
	if !ok {
		return nil, domain.BadRequest(ErrMsgUnknownMetadataKind)
	}
	names, cached, err := s.metadata.Names(ctx, k)
	if err != nil {
		return nil, domain.AsAPIError(err)
	}
	return encode(struct {
		Items halo.NameMap `json:"Items"`
		Meta  Meta         `json:"_meta"`
	}{Items: names, Meta: NewMeta(cached, s.opts.Now(), "")})
}

type cacheLoader func(ctx context.Context, key string) (*domain.CachedPayload, error)

// payloadFallback serves a cached payload when the upstream failure allows it,
// otherwise returns the upstream error unchanged.
func (s *service) payloadFallback(ctx context.Context, resource, key string, cause error, load cacheLoader) (json.RawMessage, error) {
	apiErr := domain.AsAPIError(cause)
	if !domain.IsCacheFallbackEligible(apiErr.Type) {
		return nil, apiErr
	}
	cached, err := load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.FromContext(ctx).Warn(LogMsgCacheReadFailed, "resource", resource, "error", err)
		}
		return nil, apiErr
	}
	s.servedFromCache(ctx, resource, apiErr.Type)
	return envelope(cached.Payload, NewMeta(true, cached.FetchedAt, apiErr.Type))
}

func (s *service) servedFromCache(ctx context.Context, resource string, reason domain.ErrorType) {
	metrics.CacheFallbacks.WithLabelValues(resource, string(reason)).Inc()
	logger.FromContext(ctx).Info(LogMsgServingCached, "resource", resource, "reason", reason)
}

// afterWrite records a failed cache write. The caller still returns the live payload.
func (s *service) afterWrite(ctx context.Context, resource string, err error) {
	if err == nil {
		return
	}
	metrics.CacheWriteFailures.WithLabelValues(resource).Inc()
	logger.FromContext(ctx).Error(LogMsgCacheWriteFailed, "resource", resource, "error", err)
}

func clampCount(count *int) int {
	if count == nil {
		return DefaultMatchCount
	}
	return max(MinMatchCount, min(*count, MaxMatchCount))
}

func envelope(payload json.RawMessage, meta Meta) (json.RawMessage, error) {
	body, err := WithMeta(payload, meta)
	if err != nil {
		return nil, internalError(err)
	}
	return body, nil
}

func encode(v any) (json.RawMessage, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, internalError(fmt.Errorf("%s: %w", ErrMsgFailedToEncode, err))
	}
	return body, nil
}

// internalError hides the cause from callers. It is still reachable through Unwrap for logs.
func internalError(cause error) error {
	return fmt.Errorf("%w: %v", domain.NewAPIError(domain.ErrorTypeUnknown, domain.ErrMsgInternal), cause)
}
