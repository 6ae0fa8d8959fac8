package kitchen

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/brigade/core/dispatch"
	"github.com/kilianp07/brigade/core/model"
)

type fixedSnapshot dispatch.Snapshot

func (f fixedSnapshot) Snapshot() dispatch.Snapshot { return dispatch.Snapshot(f) }

func TestStatusHandler(t *testing.T) {
	src := fixedSnapshot{
		Stations: []dispatch.StationView{{Name: "A", Dishes: []string{"Soup"}, Stock: []model.Ingredient{{Name: "soup-base", Quantity: 2}}}},
		Queue:    []string{"Soup", "Tart"},
		Backup:   []model.Ingredient{{Name: "soup-base", Quantity: 10}},
	}
	h := NewStatusHandler(src)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/kitchen", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got dispatch.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, dispatch.Snapshot(src), got)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/kitchen", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
