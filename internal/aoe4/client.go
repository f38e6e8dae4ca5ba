package aoe4

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/osse101/statsgate/internal/domain"
	"github.com/osse101/statsgate/internal/logger"
	"github.com/osse101/statsgate/internal/metrics"
)

// Service is the AoE4World passthrough. Every method validates its parameters
// before any request is made and returns the upstream JSON body unchanged.
type Service interface {
	Search(ctx context.Context, p SearchParams) (json.RawMessage, error)
	Player(ctx context.Context, p PlayerParams) (json.RawMessage, error)
	Games(ctx context.Context, p GamesParams) (json.RawMessage, error)
	Leaderboard(ctx context.Context, p LeaderboardParams) (json.RawMessage, error)
	Meta(ctx context.Context, p MetaParams) (json.RawMessage, error)
}

var _ Service = (*Client)(nil)

// Client proxies read-only AoE4World API calls. It holds no state between
// requests and never touches the cache.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// WithLimiter makes every request wait on a shared outbound limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(cl *Client) { cl.limiter = l }
}

// WithAPIKey sets the key sent as api_key on the games endpoint.
func WithAPIKey(key string) Option {
	return func(cl *Client) { cl.apiKey = strings.TrimSpace(key) }
}

// NewClient creates a Client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchParams filters a player name search.
type SearchParams struct {
	Query string
	Page  string
	Exact bool
}

// Search finds players by name.
func (c *Client) Search(ctx context.Context, p SearchParams) (json.RawMessage, error) {
	query := strings.TrimSpace(p.Query)
	if len([]rune(query)) < MinSearchLength {
		return nil, domain.BadRequest(ErrMsgSearchQueryTooShort)
	}
	q := url.Values{}
	q.Set("query", query)
	setIf(q, "page", p.Page)
	setFlag(q, "exact", p.Exact)
	return c.get(ctx, "/players/search", q)
}

// PlayerParams selects one profile.
type PlayerParams struct {
	ProfileID   string
	IncludeAlts bool
}

// Player returns one profile.
func (c *Client) Player(ctx context.Context, p PlayerParams) (json.RawMessage, error) {
	id, err := parseProfileID(p.ProfileID)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	setFlag(q, "include_alts", p.IncludeAlts)
	return c.get(ctx, "/players/"+strconv.FormatInt(id, 10), q)
}

// GamesParams selects a player's game list, one game, or the last game.
type GamesParams struct {
	ProfileID         string
	GameID            string
	Last              bool
	Page              string
	Limit             string
	Since             string
	OpponentProfileID string
	Leaderboard       string
	IncludeAlts       bool
	IncludeStats      bool
}

// Games returns games for a profile. Paging and filter parameters only apply
// to the list form.
func (c *Client) Games(ctx context.Context, p GamesParams) (json.RawMessage, error) {
	id, err := parseProfileID(p.ProfileID)
	if err != nil {
		return nil, err
	}
	leaderboard, ok := normalizeGamesLeaderboard(strings.TrimSpace(p.Leaderboard))
	if !ok {
		return nil, domain.BadRequest(ErrMsgInvalidLeaderboard)
	}

	path := fmt.Sprintf("/players/%d/games", id)
	gameID := strings.TrimSpace(p.GameID)
	list := !p.Last && gameID == ""
	switch {
	case p.Last:
		path += "/last"
	case gameID != "":
		gid, err := parsePositiveID(gameID, ErrMsgGameIDInvalid)
		if err != nil {
			return nil, err
		}
		path += "/" + strconv.FormatInt(gid, 10)
	}

	q := url.Values{}
	if list {
		setIf(q, "page", p.Page)
		setIf(q, "limit", p.Limit)
		setIf(q, "leaderboard", leaderboard)
		setIf(q, "since", p.Since)
		setIf(q, "opponent_profile_id", p.OpponentProfileID)
	}
	setFlag(q, "include_alts", p.IncludeAlts)
	setFlag(q, "include_stats", p.IncludeStats)
	setIf(q, "api_key", c.apiKey)
	return c.get(ctx, path, q)
}

// LeaderboardParams selects a leaderboard and optional filters.
type LeaderboardParams struct {
	Key       string
	ProfileID string
	Season    string
	Query     string
	Country   string
}

// Leaderboard returns one page of a ranked or quick match leaderboard.
func (c *Client) Leaderboard(ctx context.Context, p LeaderboardParams) (json.RawMessage, error) {
	key := strings.TrimSpace(p.Key)
	if _, ok := rankedLeaderboards[key]; !ok {
		return nil, domain.BadRequest(ErrMsgLeaderboardKeyMissing)
	}
	q := url.Values{}
	setIf(q, "profile_id", p.ProfileID)
	setIf(q, "season", p.Season)
	setIf(q, "query", p.Query)
	setIf(q, "country", p.Country)
	return c.get(ctx, "/leaderboards/"+key, q)
}

// MetaParams selects a stats breakdown for a leaderboard.
type MetaParams struct {
	Leaderboard string
	Type        string
	MapID       string
	Patch       string
	RankLevel   string
	Rating      string
	IncludeCivs bool
}

// Meta returns aggregate civilization, map, matchup or team statistics.
func (c *Client) Meta(ctx context.Context, p MetaParams) (json.RawMessage, error) {
	leaderboard := strings.TrimSpace(p.Leaderboard)
	if _, ok := metaLeaderboards[leaderboard]; !ok {
		return nil, domain.BadRequest(ErrMsgMetaLeaderboard)
	}
	metaType, ok := parseMetaType(strings.TrimSpace(p.Type))
	if !ok {
		return nil, domain.BadRequest(ErrMsgMetaType)
	}
	if metaType == MetaTeams && !strings.HasPrefix(leaderboard, "qm_") {
		return nil, domain.BadRequest(ErrMsgTeamsQuickMatchOnly)
	}

	path := fmt.Sprintf("/stats/%s/%s", leaderboard, metaType)
	if mapID := strings.TrimSpace(p.MapID); metaType == MetaMaps && mapID != "" {
		path = fmt.Sprintf("/stats/%s/maps/%s", leaderboard, url.PathEscape(mapID))
	}

	q := url.Values{}
	setIf(q, "patch", p.Patch)
	setIf(q, "rank_level", p.RankLevel)
	setIf(q, "rating", p.Rating)
	setFlag(q, "include_civs", p.IncludeCivs)
	return c.get(ctx, path, q)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, unreachable()
		}
	}

	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, unreachable()
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(UpstreamName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(UpstreamName, metrics.OutcomeNetwork).Inc()
		log.Warn(LogMsgUpstreamFailed, "path", path, "error", err)
		return nil, unreachable()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(UpstreamName, metrics.OutcomeNetwork).Inc()
		log.Warn(LogMsgUpstreamFailed, "path", path, "error", err)
		return nil, unreachable()
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if !json.Valid(body) {
			metrics.UpstreamRequestsTotal.WithLabelValues(UpstreamName, metrics.OutcomeInvalidJSON).Inc()
			log.Warn(LogMsgUpstreamFailed, "path", path, "error", "invalid JSON body")
			return nil, unreachable()
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(UpstreamName, metrics.OutcomeSuccess).Inc()
		return body, nil
	}

	apiErr := classifyStatus(resp.StatusCode, errorMessage(resp.Header.Get("Content-Type"), body))
	metrics.UpstreamRequestsTotal.WithLabelValues(UpstreamName, string(apiErr.Type)).Inc()
	log.Warn(LogMsgUpstreamError, "path", path, "status", resp.StatusCode, "type", apiErr.Type)
	return nil, apiErr
}

// classifyStatus maps an AoE4World error status onto the error taxonomy,
// preferring the upstream's own message when it gave one.
func classifyStatus(status int, message string) *domain.APIError {
	pick := func(fallback string) string {
		if message != "" {
			return message
		}
		return fallback
	}
	switch status {
	case http.StatusBadRequest:
		return domain.NewAPIError(domain.ErrorTypeBadRequest, pick(domain.ErrMsgAoe4BadRequest))
	case http.StatusNotFound:
		return domain.NewAPIError(domain.ErrorTypeNotFound, pick(domain.ErrMsgAoe4NotFound))
	case http.StatusTooManyRequests:
		return domain.NewAPIError(domain.ErrorTypeRateLimit, pick(domain.ErrMsgRateLimited))
	default:
		return domain.NewAPIError(domain.ErrorTypeUnknown, pick(fmt.Sprintf(domain.ErrMsgUnexpectedStatus, status)))
	}
}

// errorMessage extracts a human readable message from an error body:
// error.message, message or error for JSON, else the trimmed text.
func errorMessage(contentType string, body []byte) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/json" {
		var payload struct {
			Error   json.RawMessage `json:"error"`
			Message string          `json:"message"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return ""
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		if payload.Message != "" {
			return payload.Message
		}
		var plain string
		if json.Unmarshal(payload.Error, &plain) == nil {
			return plain
		}
		return ""
	}

	text := strings.TrimSpace(string(body))
	if r := []rune(text); len(r) > maxErrorTextLength {
		text = string(r[:maxErrorTextLength])
	}
	return text
}

func unreachable() *domain.APIError {
	return domain.NewAPIError(domain.ErrorTypeNetwork, domain.ErrMsgAoe4Unreachable)
}

func setIf(q url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		q.Set(key, v)
	}
}

func setFlag(q url.Values, key string, on bool) {
	if on {
		q.Set(key, "true")
	}
}
