package model

// Station is a kitchen station: the dishes it knows how to make and the
// ingredients it currently holds. Stock order is stable and follows the order
// ingredients were first stocked.
type Station struct {
	name   string
	dishes []*Dish
	stock  []Ingredient
}

// NewStation creates an empty station.
func NewStation(name string) *Station {
	return &Station{name: name}
}

func (s *Station) Name() string { return s.name }

// Dishes returns the assigned dishes in assignment order.
func (s *Station) Dishes() []*Dish {
	return append([]*Dish(nil), s.dishes...)
}

// Stock returns a copy of the ingredient stock.
func (s *Station) Stock() []Ingredient {
	return append([]Ingredient(nil), s.stock...)
}

// HasDish reports whether a dish with that name is assigned.
func (s *Station) HasDish(name string) bool {
	return s.dish(name) != nil
}

// StockOf returns the stocked quantity of an ingredient and whether the
// station stocks it at all.
func (s *Station) StockOf(name string) (int, bool) {
	for _, ing := range s.stock {
		if ing.Name == name {
			return ing.Quantity, true
		}
	}
	return 0, false
}

// AssignDish adds a dish to the repertoire. A dish whose name is already
// assigned is rejected.
func (s *Station) AssignDish(d *Dish) bool {
	if d == nil || s.HasDish(d.Name) {
		return false
	}
	s.dishes = append(s.dishes, d)
	return true
}

// Replenish adds the ingredient quantity to the stock, appending a new entry
// when the ingredient is not stocked yet.
func (s *Station) Replenish(ing Ingredient) {
	if ing.Quantity < 0 {
		return
	}
	for i := range s.stock {
		if s.stock[i].Name == ing.Name {
			s.stock[i].Quantity += ing.Quantity
			return
		}
	}
	ing.RequiredQuantity = 0
	s.stock = append(s.stock, ing)
}

// CanComplete reports whether the dish is assigned here and every required
// ingredient is stocked in sufficient quantity.
func (s *Station) CanComplete(dishName string) bool {
	d := s.dish(dishName)
	return d != nil && s.covers(d.Ingredients)
}

// Prepare consumes the ingredients of the assigned dish. Nothing is consumed
// when the dish cannot be completed.
func (s *Station) Prepare(dishName string) bool {
	d := s.dish(dishName)
	if d == nil || !s.covers(d.Ingredients) {
		return false
	}
	s.consume(d.Ingredients)
	return true
}

// CanCompleteOrder is CanComplete for a queued order: the dish must be in the
// repertoire but the requirements come from the order, which may carry a
// dietary adjustment.
func (s *Station) CanCompleteOrder(order *Dish) bool {
	return order != nil && s.HasDish(order.Name) && s.covers(order.Ingredients)
}

// PrepareOrder prepares a queued order using the order's own requirements.
func (s *Station) PrepareOrder(order *Dish) bool {
	if !s.CanCompleteOrder(order) {
		return false
	}
	s.consume(order.Ingredients)
	return true
}

// covers sums repeated requirements so that consume can never drive a
// quantity below zero.
func (s *Station) covers(reqs []Ingredient) bool {
	need := make(map[string]int, len(reqs))
	for _, req := range reqs {
		need[req.Name] += req.RequiredQuantity
	}
	for name, qty := range need {
		have, _ := s.StockOf(name)
		if have < qty {
			return false
		}
	}
	return true
}

func (s *Station) consume(reqs []Ingredient) {
	for _, req := range reqs {
		for i := range s.stock {
			if s.stock[i].Name == req.Name {
				s.stock[i].Quantity -= req.RequiredQuantity
				break
			}
		}
	}
}

func (s *Station) dish(name string) *Dish {
	for _, d := range s.dishes {
		if d.Name == name {
			return d
		}
	}
	return nil
}
