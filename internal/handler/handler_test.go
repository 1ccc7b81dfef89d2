package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavinrajasekaran/TennisTracker/internal/handler"
	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository/memory"
	"github.com/kavinrajasekaran/TennisTracker/internal/service"
	"github.com/kavinrajasekaran/TennisTracker/pkg/response"
)

const (
	testSecret = "test-secret-0123456789"
	testIssuer = "tennis-tracker"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type testServer struct {
	engine *gin.Engine
	auth   *handler.Authenticator
}

func newTestServer(t *testing.T, pinger handler.Pinger, svc *handler.Services) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zerolog.New(io.Discard)

	if svc == nil {
		store := memory.NewStore()
		st := service.Stores{Players: store.Players(), Matches: store.Matches(), Tx: store, Locker: store}
		svc = &handler.Services{
			Matches:       service.NewMatchService(st, service.Options{}, logger),
			Stats:         service.NewStatsService(st, service.Options{}, logger),
			Consolidation: service.NewConsolidationService(st, logger),
		}
	}
	auth := handler.NewAuthenticator(testSecret, testIssuer)
	r := gin.New()
	r.Use(handler.RequestLogger(logger))
	handler.Register(r, handler.NewHealthHandler(pinger, "memory"), auth, *svc)
	return &testServer{engine: r, auth: auth}
}

func (s *testServer) do(t *testing.T, method, path, account string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if account != "" {
		tok, err := s.auth.Issue(account, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func matchBody(a, b string, sets ...[2]string) map[string]any {
	rows := make([]map[string]string, 0, len(sets))
	for _, s := range sets {
		rows = append(rows, map[string]string{"team1_games": s[0], "team2_games": s[1]})
	}
	return map[string]any{"match_type": "singles", "team1": []string{a}, "team2": []string{b}, "sets": rows}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, stubPinger{}, nil)
	w := srv.do(t, http.MethodGet, "/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = srv.do(t, http.MethodGet, handler.APIV1Prefix+"/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := newTestServer(t, stubPinger{err: errors.New("connection refused")}, nil)
	w = down.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestAuth(t *testing.T) {
	srv := newTestServer(t, stubPinger{}, nil)

	w := srv.do(t, http.MethodGet, handler.APIV1Prefix+"/matches", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	forged, err := handler.NewAuthenticator("another-secret-0123456789", testIssuer).Issue("user-1", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, handler.APIV1Prefix+"/matches", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := srv.auth.Issue("user-1", -time.Minute)
	require.NoError(t, err)
	_, err = srv.auth.Verify(expired)
	assert.Error(t, err)

	wrongIssuer, err := handler.NewAuthenticator(testSecret, "someone-else").Issue("user-1", time.Hour)
	require.NoError(t, err)
	_, err = srv.auth.Verify(wrongIssuer)
	assert.Error(t, err)

	sub, err := srv.auth.Verify(mustIssue(t, srv.auth, "user-1"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func mustIssue(t *testing.T, a *handler.Authenticator, sub string) string {
	t.Helper()
	tok, err := a.Issue(sub, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestMatchesAndPlayersFlow(t *testing.T) {
	srv := newTestServer(t, stubPinger{}, nil)
	base := handler.APIV1Prefix

	w := srv.do(t, http.MethodPost, base+"/matches", "user-1", matchBody("Ana", "Ben", [2]string{"6", "4"}, [2]string{"6", "3"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Match
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.WinnerTeamIndex)
	assert.Equal(t, 0, *created.WinnerTeamIndex)

	w = srv.do(t, http.MethodPost, base+"/matches", "user-1", matchBody("Ana", "", [2]string{"6", "5"}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var bad response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bad))
	assert.Equal(t, "invalid_input", bad.Error)
	assert.Len(t, bad.FieldErrors, 2)

	w = srv.do(t, http.MethodPost, base+"/matches", "user-1", "not a form")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodGet, base+"/matches", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var matches []model.Match
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matches))
	assert.Len(t, matches, 1)

	// accounts are isolated
	w = srv.do(t, http.MethodGet, base+"/matches", "user-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = srv.do(t, http.MethodGet, base+"/players", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var players []model.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &players))
	require.Len(t, players, 2)

	var ana model.Player
	for _, p := range players {
		if p.Name == "Ana" {
			ana = p
		}
	}
	w = srv.do(t, http.MethodGet, base+"/players/"+ana.ID, "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sum model.PlayerSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.InDelta(t, 100.0, sum.WinPercentage, 1e-9)
	assert.Equal(t, []string{"W"}, sum.RecentForm)

	w = srv.do(t, http.MethodGet, base+"/players/"+ana.ID, "user-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodGet, base+"/players/"+ana.ID+"/head-to-head", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recs []model.HeadToHeadRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Ben", recs[0].Opponent.Name)

	w = srv.do(t, http.MethodPost, base+"/players/recalculate", "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPost, base+"/players/consolidate", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report service.ConsolidationReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Empty(t, report.Groups)
}

func TestPreviewAndDuplicates(t *testing.T) {
	srv := newTestServer(t, stubPinger{}, nil)
	base := handler.APIV1Prefix

	w := srv.do(t, http.MethodPost, base+"/matches/preview", "user-1", matchBody("Ana", "Ben", [2]string{"6", "4"}, [2]string{"7", "6"}))
	require.Equal(t, http.StatusOK, w.Code)
	var p service.MatchPreview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "6-4, 7-6", p.Score)
	assert.Equal(t, []string{"Set 2: a 7-6 set needs tiebreak points for both teams"}, p.Errors)
	require.NotNil(t, p.WinnerTeamIndex)
	assert.Equal(t, "Ana", p.Winner)

	for i := 0; i < 2; i++ {
		w = srv.do(t, http.MethodPost, base+"/matches", "user-1", matchBody("Ana", "Ben", [2]string{"6", fmt.Sprint(i)}))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w = srv.do(t, http.MethodGet, base+"/matches/duplicates", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pairs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pairs))
	assert.Len(t, pairs, 1)
}

type failingStats struct{ service.StatsService }

func (failingStats) ListPlayers(context.Context, string) ([]model.Player, error) {
	return nil, fmt.Errorf("%w: fetch players: %w", service.ErrStoreFailure, errors.New("dial tcp: timeout"))
}

func TestStoreFailureMapsTo503(t *testing.T) {
	srv := newTestServer(t, stubPinger{}, &handler.Services{Stats: failingStats{}})
	w := srv.do(t, http.MethodGet, handler.APIV1Prefix+"/players", "user-1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "store_unavailable")
}
