package handler

import (
	"net/http"

	"github.com/osse101/statsgate/internal/hw2"
)

// HW2Handler serves the Halo Wars 2 gateway endpoints.
type HW2Handler struct {
	svc hw2.Service
}

// NewHW2Handler creates a new HW2Handler
func NewHW2Handler(svc hw2.Service) *HW2Handler {
	return &HW2Handler{svc: svc}
}

// HandleStats returns a player's summary stats.
// @Summary Player stats
// @Description Live stats, or the last cached copy when the upstream is rate limited, unreachable or rejecting keys.
// @Tags hw2
// @Produce json
// @Param gamertag query string true "Gamertag"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/hw2/stats [get]
func (h *HW2Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Stats(r.Context(), queryParam(r, "gamertag"))
	if err != nil {
		respondServiceError(w, r, "hw2 stats", err)
		return
	}
	respondRaw(w, http.StatusOK, body)
}

// HandleMatches returns a player's recent matches.
// @Summary Match history
// @Tags hw2
// @Accept json
// @Produce json
// @Param request body hw2.MatchesRequest true "Gamertag and optional count (1-100, default 10)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/hw2/matches [post]
func (h *HW2Handler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	var req hw2.MatchesRequest
	decodeBody(r, &req, "hw2 matches")

	body, err := h.svc.Matches(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "hw2 matches", err)
		return
	}
	respondRaw(w, http.StatusOK, body)
}

// HandleMatch returns one match result exactly as the upstream sent it.
// @Summary Match detail
// @Tags hw2
// @Produce json
// @Param matchId query string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/hw2/match [get]
func (h *HW2Handler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Match(r.Context(), queryParam(r, "matchId"))
	if err != nil {
		respondServiceError(w, r, "hw2 match", err)
		return
	}
	respondRaw(w, http.StatusOK, body)
}

// HandleEvents returns a match's event stream.
// @Summary Match events
// @Tags hw2
// @Produce json
// @Param matchId query string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/hw2/events [get]
func (h *HW2Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Events(r.Context(), queryParam(r, "matchId"))
	if err != nil {
		respondServiceError(w, r, "hw2 events", err)
		return
	}
	respondRaw(w, http.StatusOK, body)
}

// HandleMetadata returns an id to name map for a metadata collection.
// @Summary Metadata names
// @Tags hw2
// @Produce json
// @Param kind query string true "leader-powers, game-objects or techs"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/hw2/metadata [get]
func (h *HW2Handler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Metadata(r.Context(), queryParam(r, "kind"))
	if err != nil {
		respondServiceError(w, r, "hw2 metadata", err)
		return
	}
	respondRaw(w, http.StatusOK, body)
}
