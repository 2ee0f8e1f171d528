package games

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/stakes/go/internal/httpx"
	"github.com/mcdev12/stakes/go/internal/models"
)

func newTestRouter(f *fixture) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/games", NewService(f.app).Routes)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeGame(t *testing.T, rec *httptest.ResponseRecorder) models.Game {
	t.Helper()
	var game models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game), rec.Body.String())
	return game
}

func TestGameLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)

	// Form values arrive as strings.
	rec := do(t, h, http.MethodPost, "/api/games",
		fmt.Sprintf(`{"player1_id":%q,"entry_fee":"10","owner_cut":"10"}`, f.alice))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	game := decodeGame(t, rec)
	assert.Equal(t, models.GameStatusWaiting, game.Status)

	base := "/api/games/" + game.ID.String()

	rec = do(t, h, http.MethodPost, base+"/join", fmt.Sprintf(`{"player2_id":%q}`, f.bob))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.GameStatusReady, decodeGame(t, rec).Status)

	rec = do(t, h, http.MethodPost, base+"/start", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.GameStatusActive, decodeGame(t, rec).Status)

	rec = do(t, h, http.MethodPost, base+"/end", fmt.Sprintf(`{"winner_id":%q}`, f.bob))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ended := decodeGame(t, rec)
	assert.Equal(t, models.GameStatusFinished, ended.Status)
	require.NotNil(t, ended.WinnerID)
	assert.Equal(t, f.bob, *ended.WinnerID)

	rec = do(t, h, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.GameStatusFinished, decodeGame(t, rec).Status)
}

func TestCreateGameAcceptsNumbers(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)

	rec := do(t, h, http.MethodPost, "/api/games",
		fmt.Sprintf(`{"player1_id":%q,"entry_fee":2.5,"owner_cut":0}`, f.alice))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assertMoney(t, "2.5", decodeGame(t, rec).EntryFee)
}

func TestGameEndpointErrors(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)
	game := f.createGame(t, "10", "0")
	base := "/api/games/" + game.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed body", http.MethodPost, "/api/games", `{`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/api/games", ``, http.StatusBadRequest},
		{"bad fee", http.MethodPost, "/api/games", fmt.Sprintf(`{"player1_id":%q,"entry_fee":"0","owner_cut":"0"}`, f.alice), http.StatusBadRequest},
		{"broke player", http.MethodPost, "/api/games", fmt.Sprintf(`{"player1_id":%q,"entry_fee":"1","owner_cut":"0"}`, f.charlie), http.StatusPaymentRequired},
		{"bad id", http.MethodGet, "/api/games/nope", ``, http.StatusBadRequest},
		{"unknown game", http.MethodGet, "/api/games/" + uuid.NewString(), ``, http.StatusNotFound},
		{"unknown joiner", http.MethodPost, base + "/join", fmt.Sprintf(`{"player2_id":%q}`, uuid.New()), http.StatusNotFound},
		{"start too early", http.MethodPost, base + "/start", ``, http.StatusConflict},
		{"end too early", http.MethodPost, base + "/end", fmt.Sprintf(`{"winner_id":%q}`, f.alice), http.StatusConflict},
		{"bad status filter", http.MethodGet, "/api/games?status=paused", ``, http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/api/games?limit=-3", ``, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())

			var resp httpx.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestCancelGameOverHTTP(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)

	first := f.createGame(t, "10", "0")
	rec := do(t, h, http.MethodPost, "/api/games/"+first.ID.String()+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.GameStatusCancelled, decodeGame(t, rec).Status)

	second := f.createGame(t, "10", "0")
	rec = do(t, h, http.MethodPost, "/api/games/"+second.ID.String()+"/cancel", `{"reason":"changed my mind"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/games/"+second.ID.String()+"/cancel", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	assertMoney(t, "100", f.repo.balance(f.alice))
}

func TestListGamesOverHTTP(t *testing.T) {
	f := newFixture(t)
	h := newTestRouter(f)

	rec := do(t, h, http.MethodGet, "/api/games", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	f.createGame(t, "1", "0")
	f.createGame(t, "1", "0")

	rec = do(t, h, http.MethodGet, "/api/games?status=waiting&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var games []models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	assert.Len(t, games, 1)
}
