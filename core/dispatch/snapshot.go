package dispatch

import "github.com/kilianp07/brigade/core/model"

// StationView is a read-only copy of a station.
type StationView struct {
	Name   string             `json:"name"`
	Dishes []string           `json:"dishes"`
	Stock  []model.Ingredient `json:"stock"`
}

// Snapshot is a consistent copy of the kitchen state.
type Snapshot struct {
	Stations  []StationView      `json:"stations"`
	Queue     []string           `json:"queue"`
	Backup    []model.Ingredient `json:"backup"`
	LastBatch *BatchResult       `json:"last_batch,omitempty"`
}

// Snapshot copies the stations, queue and backup stock under the engine lock.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := Snapshot{
		Queue:  e.queue.DrainToDisplay(),
		Backup: e.backup.Items(),
	}
	for _, st := range e.registry.Stations() {
		v := StationView{Name: st.Name(), Stock: st.Stock()}
		for _, d := range st.Dishes() {
			v.Dishes = append(v.Dishes, d.Name)
		}
		snap.Stations = append(snap.Stations, v)
	}
	if n := len(e.history); n > 0 {
		last := e.history[n-1]
		snap.LastBatch = &last
	}
	return snap
}
