package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/stakes/go/internal/models"
)

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	r.Route("/api/users", NewService(newTestApp(newMemRepo())).Routes)
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

func TestUserEndpoints(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodPost, "/api/users", `{"username":"dave","initial_balance":"20"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "dave", user.Username)

	rec = do(t, h, http.MethodPost, "/api/users/"+user.ID.String()+"/deposit", `{"amount":5.25}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "25.25", user.Balance.StringFixed(2))

	rec = do(t, h, http.MethodGet, "/api/users/"+user.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users/"+user.ID.String()+"/ledger", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var entries []models.LedgerEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "5.25", entries[0].Amount.StringFixed(2))
	assert.Equal(t, "20.00", entries[1].Amount.StringFixed(2))

	rec = do(t, h, http.MethodPost, "/api/users", `{"username":"dave"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserEndpointErrors(t *testing.T) {
	h := newTestRouter()

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/users/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/users/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/users", `{"username":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/users", `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/users", `{"username":"ivy","initial_balance":"99999999999999999999"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/users/"+uuid.NewString()+"/ledger?limit=0", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/users/"+uuid.NewString()+"/ledger", "").Code)
}
