package kitchen

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/brigade/core/dispatch"
)

// Snapshotter provides a consistent copy of the kitchen state.
type Snapshotter interface {
	Snapshot() dispatch.Snapshot
}

// NewStatusHandler returns an HTTP handler exposing the stations, queue,
// backup stock and last batch via GET /api/kitchen.
func NewStatusHandler(src Snapshotter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(src.Snapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
