package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/statsgate/internal/aoe4"
)

func newAoe4Fixture(t *testing.T, status int, body string) (*Aoe4Handler, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(upstream.Close)

	h := NewAoe4Handler(aoe4.NewClient(upstream.URL, aoe4.WithHTTPClient(upstream.Client())))
	h.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	return h, &calls
}

func TestAoe4Handler_NegativeProfileIDIsRejectedWithoutUpstreamCall(t *testing.T) {
	h, calls := newAoe4Fixture(t, http.StatusOK, `{}`)

	w := httptest.NewRecorder()
	h.HandlePlayer(w, httptest.NewRequest(http.MethodGet, "/api/aoe4/player?profileId=-5", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":{"type":"bad_request","message":"profileId must be a positive number."}}`, w.Body.String())
	assert.Equal(t, int32(0), calls.Load())
}

func TestAoe4Handler_AddsMeta(t *testing.T) {
	h, calls := newAoe4Fixture(t, http.StatusOK, `{"profile_id":42,"name":"Beasty"}`)

	w := httptest.NewRecorder()
	h.HandlePlayer(w, httptest.NewRequest(http.MethodGet, "/api/aoe4/player?profileId=42", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"profile_id":42,"name":"Beasty","_meta":{"cached":false,"fetchedAt":"2024-05-06T07:08:09.000Z"}}`, w.Body.String())
	assert.Equal(t, int32(1), calls.Load())
}

func TestAoe4Handler_UpstreamBadRequest(t *testing.T) {
	h, _ := newAoe4Fixture(t, http.StatusBadRequest, `{"error":{"message":"unknown season"}}`)

	w := httptest.NewRecorder()
	h.HandleLeaderboard(w, httptest.NewRequest(http.MethodGet, "/api/aoe4/leaderboard?key=rm_solo&season=99", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unknown season", resp.Error.Message)
}

func TestAoe4Handler_ValidationPerEndpoint(t *testing.T) {
	h, calls := newAoe4Fixture(t, http.StatusOK, `{}`)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  string
	}{
		{"short search", h.HandleSearch, "/api/aoe4/search?query=ab"},
		{"games bad leaderboard", h.HandleGames, "/api/aoe4/games?profileId=1&leaderboard=nope"},
		{"games bad game id", h.HandleGames, "/api/aoe4/games?profileId=1&gameId=x"},
		{"leaderboard missing key", h.HandleLeaderboard, "/api/aoe4/leaderboard"},
		{"meta teams on ranked", h.HandleMeta, "/api/aoe4/meta?leaderboard=rm_solo&type=teams"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Equal(t, int32(0), calls.Load())
}
