package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusConflict, "game is not waiting for players")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"game is not waiting for players"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		WinnerID string `json:"winner_id"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"winner_id":"abc"}`))
	require.NoError(t, DecodeJSON(req, &body))
	assert.Equal(t, "abc", body.WinnerID)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.EqualError(t, DecodeJSON(req, &body), "request body is required")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	assert.Error(t, DecodeJSON(req, &body))
}
