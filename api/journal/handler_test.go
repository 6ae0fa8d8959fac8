package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/brigade/core/dispatch/logging"
)

func seededStore(t *testing.T) logging.LogStore {
	t.Helper()
	store, err := logging.NewJSONLStore(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	base := time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(context.Background(), logging.LogRecord{
		Timestamp: base,
		BatchID:   "b1",
		Prepared:  []logging.PreparedDish{{Dish: "Soup", Station: "A"}},
	}))
	require.NoError(t, store.Append(context.Background(), logging.LogRecord{
		Timestamp: base.Add(time.Hour),
		BatchID:   "b2",
		Failed:    []string{"Tart"},
	}))
	return store
}

func get(t *testing.T, h http.Handler, url, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandler_AuthAndFilters(t *testing.T) {
	h := NewHandler(seededStore(t), "tok")

	rr := get(t, h, "/api/batches?dish=Soup", "tok")
	require.Equal(t, http.StatusOK, rr.Code)
	var out []logging.LogRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "b1", out[0].BatchID)

	rr = get(t, h, "/api/batches?start=2024-05-01T19:30:00Z", "tok")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "b2", out[0].BatchID)

	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/api/batches", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/api/batches", "nope").Code)
}

func TestHandler_BadRequests(t *testing.T) {
	h := NewHandler(seededStore(t), "")
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/batches?end=yesterday", "").Code)

	req := httptest.NewRequest(http.MethodPost, "/api/batches", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandler_EmptyResultIsArray(t *testing.T) {
	rr := get(t, NewHandler(logging.NopStore{}, ""), "/api/batches", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}
