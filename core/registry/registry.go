// Package registry keeps the ordered set of kitchen stations. Registration
// order is the dispatch priority order.
package registry

import "github.com/kilianp07/brigade/core/model"

// Registry owns the registered stations. Station names are unique.
type Registry struct {
	stations []*model.Station
}

// New returns an empty registry.
func New() *Registry { return &Registry{} }

// Add appends the station at the tail. Nil stations and names that are
// already registered are rejected.
func (r *Registry) Add(s *model.Station) bool {
	if s == nil || r.Index(s.Name()) >= 0 {
		return false
	}
	r.stations = append(r.stations, s)
	return true
}

// Remove drops the station with the given name.
func (r *Registry) Remove(name string) bool {
	i := r.Index(name)
	if i < 0 {
		return false
	}
	last := len(r.stations) - 1
	copy(r.stations[i:], r.stations[i+1:])
	r.stations[last] = nil
	r.stations = r.stations[:last]
	return true
}

// Find returns the registered station. The registry keeps ownership.
func (r *Registry) Find(name string) (*model.Station, bool) {
	i := r.Index(name)
	if i < 0 {
		return nil, false
	}
	return r.stations[i], true
}

// Index returns the position of the station or -1.
func (r *Registry) Index(name string) int {
	for i, s := range r.stations {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

// MoveToFront moves the station to position 0 keeping the relative order of
// the others. A station already at the front is left in place.
func (r *Registry) MoveToFront(name string) bool {
	i := r.Index(name)
	switch {
	case i < 0:
		return false
	case i == 0:
		return true
	}
	s := r.stations[i]
	copy(r.stations[1:i+1], r.stations[:i])
	r.stations[0] = s
	return true
}

// Merge folds station b into station a: every dish of b is assigned to a,
// every ingredient of b is added to a's stock and b is removed. Both names
// must resolve to distinct stations, otherwise nothing changes.
func (r *Registry) Merge(a, b string) bool {
	if a == b {
		return false
	}
	dst, ok := r.Find(a)
	if !ok {
		return false
	}
	src, ok := r.Find(b)
	if !ok {
		return false
	}
	for _, d := range src.Dishes() {
		dst.AssignDish(d)
	}
	for _, ing := range src.Stock() {
		dst.Replenish(ing)
	}
	return r.Remove(b)
}

// AssignDish assigns the dish to the named station.
func (r *Registry) AssignDish(station string, d *model.Dish) bool {
	s, ok := r.Find(station)
	if !ok {
		return false
	}
	return s.AssignDish(d)
}

// ReplenishAt adds the ingredient to the named station's stock.
func (r *Registry) ReplenishAt(station string, ing model.Ingredient) bool {
	s, ok := r.Find(station)
	if !ok {
		return false
	}
	s.Replenish(ing)
	return true
}

// CanComplete reports whether any station can currently prepare the dish.
func (r *Registry) CanComplete(dishName string) bool {
	for _, s := range r.stations {
		if s.CanComplete(dishName) {
			return true
		}
	}
	return false
}

// PrepareAt prepares the dish at the named station when it can complete it.
func (r *Registry) PrepareAt(station, dishName string) bool {
	s, ok := r.Find(station)
	if !ok || !s.CanComplete(dishName) {
		return false
	}
	return s.Prepare(dishName)
}

// Stations returns the stations in dispatch order. The slice is a copy; the
// stations are not.
func (r *Registry) Stations() []*model.Station {
	return append([]*model.Station(nil), r.stations...)
}

// Names returns the station names in dispatch order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.stations))
	for i, s := range r.stations {
		out[i] = s.Name()
	}
	return out
}

func (r *Registry) Len() int { return len(r.stations) }
