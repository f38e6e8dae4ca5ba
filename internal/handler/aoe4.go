package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/osse101/statsgate/internal/aoe4"
	"github.com/osse101/statsgate/internal/hw2"
)

// Aoe4Handler serves the AoE4World passthrough endpoints. Responses are never
// cached; each carries _meta{cached:false}.
type Aoe4Handler struct {
	svc aoe4.Service
	now func() time.Time
}

// NewAoe4Handler creates a new Aoe4Handler
func NewAoe4Handler(svc aoe4.Service) *Aoe4Handler {
	return &Aoe4Handler{svc: svc, now: time.Now}
}

// HandleSearch finds players by name.
// @Summary Search AoE4 players
// @Tags aoe4
// @Produce json
// @Param query query string true "At least 3 characters"
// @Param page query string false "Page"
// @Param exact query bool false "Exact match"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/aoe4/search [get]
func (h *Aoe4Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "aoe4 search", func(ctx context.Context) (json.RawMessage, error) {
		return h.svc.Search(ctx, aoe4.SearchParams{
			Query: queryParam(r, "query"),
			Page:  queryParam(r, "page"),
			Exact: queryFlag(r, "exact"),
		})
	})
}

// HandlePlayer returns one profile.
// @Summary AoE4 player profile
// @Tags aoe4
// @Produce json
// @Param profileId query int true "Positive profile id"
// @Param includeAlts query bool false "Include alt accounts"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/aoe4/player [get]
func (h *Aoe4Handler) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "aoe4 player", func(ctx context.Context) (json.RawMessage, error) {
		return h.svc.Player(ctx, aoe4.PlayerParams{
			ProfileID:   queryParam(r, "profileId"),
			IncludeAlts: queryFlag(r, "includeAlts"),
		})
	})
}

// HandleGames returns a game list, one game, or the last game for a profile.
// @Summary AoE4 games
// @Tags aoe4
// @Produce json
// @Param profileId query int true "Positive profile id"
// @Param gameId query int false "Single game id"
// @Param last query bool false "Only the last game"
// @Param leaderboard query string false "Leaderboard filter"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/aoe4/games [get]
func (h *Aoe4Handler) HandleGames(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "aoe4 games", func(ctx context.Context) (json.RawMessage, error) {
		return h.svc.Games(ctx, aoe4.GamesParams{
			ProfileID:         queryParam(r, "profileId"),
			GameID:            queryParam(r, "gameId"),
			Last:              queryFlag(r, "last"),
			Page:              queryParam(r, "page"),
			Limit:             queryParam(r, "limit"),
			Since:             queryParam(r, "since"),
			OpponentProfileID: queryParam(r, "opponentProfileId"),
			Leaderboard:       queryParam(r, "leaderboard"),
			IncludeAlts:       queryFlag(r, "includeAlts"),
			IncludeStats:      queryFlag(r, "includeStats"),
		})
	})
}

// HandleLeaderboard returns a leaderboard page.
// @Summary AoE4 leaderboard
// @Tags aoe4
// @Produce json
// @Param key query string true "Leaderboard key"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/aoe4/leaderboard [get]
func (h *Aoe4Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "aoe4 leaderboard", func(ctx context.Context) (json.RawMessage, error) {
		return h.svc.Leaderboard(ctx, aoe4.LeaderboardParams{
			Key:       queryParam(r, "key"),
			ProfileID: queryParam(r, "profileId"),
			Season:    queryParam(r, "season"),
			Query:     queryParam(r, "query"),
			Country:   queryParam(r, "country"),
		})
	})
}

// HandleMeta returns aggregate civilization, map, matchup or team stats.
// @Summary AoE4 meta stats
// @Tags aoe4
// @Produce json
// @Param leaderboard query string true "Leaderboard"
// @Param type query string true "civilizations, maps, matchups or teams"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/aoe4/meta [get]
func (h *Aoe4Handler) HandleMeta(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "aoe4 meta", func(ctx context.Context) (json.RawMessage, error) {
		return h.svc.Meta(ctx, aoe4.MetaParams{
			Leaderboard: queryParam(r, "leaderboard"),
			Type:        queryParam(r, "type"),
			MapID:       queryParam(r, "mapId"),
			Patch:       queryParam(r, "patch"),
			RankLevel:   queryParam(r, "rankLevel"),
			Rating:      queryParam(r, "rating"),
			IncludeCivs: queryFlag(r, "includeCivs"),
		})
	})
}

func (h *Aoe4Handler) serve(w http.ResponseWriter, r *http.Request, opName string, call func(context.Context) (json.RawMessage, error)) {
	body, err := call(r.Context())
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	body, err = hw2.WithMeta(body, hw2.NewMeta(false, h.now(), ""))
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	respondRaw(w, http.StatusOK, body)
}
