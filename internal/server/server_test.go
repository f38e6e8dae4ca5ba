package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/osse101/statsgate/internal/aoe4"
	"github.com/osse101/statsgate/internal/handler"
	"github.com/osse101/statsgate/internal/hw2"
)

type fakeHW2 struct{ last string }

func (f *fakeHW2) reply(op string) (json.RawMessage, error) {
	f.last = op
	return json.RawMessage(`{"op":"` + op + `"}`), nil
}

func (f *fakeHW2) Stats(context.Context, string) (json.RawMessage, error) { return f.reply("stats") }
func (f *fakeHW2) Matches(context.Context, hw2.MatchesRequest) (json.RawMessage, error) {
	return f.reply("matches")
}
func (f *fakeHW2) Match(context.Context, string) (json.RawMessage, error)    { return f.reply("match") }
func (f *fakeHW2) Events(context.Context, string) (json.RawMessage, error)   { return f.reply("events") }
func (f *fakeHW2) Metadata(context.Context, string) (json.RawMessage, error) { return f.reply("metadata") }

type okPool struct{}

func (okPool) Ping(context.Context) error { return nil }
func (okPool) Close()                     {}

func newTestRouter(t *testing.T) (http.Handler, *fakeHW2, *atomic.Int32) {
	t.Helper()
	var aoeCalls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		aoeCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"path":"` + r.URL.Path + `"}`))
	}))
	t.Cleanup(upstream.Close)

	svc := &fakeHW2{}
	aoe := aoe4.NewClient(upstream.URL, aoe4.WithHTTPClient(upstream.Client()))
	router := NewRouter(nil, NewIPRateLimiter(rate.Inf, 1), okPool{},
		handler.NewHW2Handler(svc), handler.NewAoe4Handler(aoe))
	return router, svc, &aoeCalls
}

func TestRouter_HW2Routes(t *testing.T) {
	router, svc, _ := newTestRouter(t)

	tests := []struct {
		method, target, body, op string
	}{
		{http.MethodGet, "/api/hw2/stats?gamertag=Ace", "", "stats"},
		{http.MethodPost, "/api/hw2/matches", `{"gamertag":"Ace"}`, "matches"},
		{http.MethodGet, "/api/hw2/match?matchId=m1", "", "match"},
		{http.MethodGet, "/api/hw2/events?matchId=m1", "", "events"},
		{http.MethodGet, "/api/hw2/metadata?kind=techs", "", "metadata"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.op, svc.last)
			assert.Equal(t, "nosniff", rec.Header().Get(HeaderContentType))
			assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
		})
	}
}

func TestRouter_MatchesRequiresPost(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hw2/matches", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_Aoe4Routes(t *testing.T) {
	router, _, calls := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/aoe4/player?profileId=42", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/players/42", body["path"])
	assert.Contains(t, body, "_meta")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/aoe4/player?profileId=-5", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/version"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
