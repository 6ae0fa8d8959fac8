// Package backup holds the shared reserve of ingredients that stations draw
// from when they run short.
package backup

import "github.com/kilianp07/brigade/core/model"

// Stock maps ingredient names to available quantities. Entries keep their
// insertion order and an entry that reaches zero is removed.
type Stock struct {
	items []model.Ingredient
}

// New returns a stock seeded with the given ingredients.
func New(items ...model.Ingredient) *Stock {
	s := &Stock{}
	s.SetAll(items)
	return s
}

// SetAll replaces the whole stock. Zero quantities are dropped and repeated
// names are folded into one entry.
func (s *Stock) SetAll(items []model.Ingredient) {
	s.items = nil
	for _, ing := range items {
		s.AddOne(ing)
	}
}

// AddOne increases the quantity of an existing entry or appends a new one.
// Negative quantities are rejected; zero is a no-op.
func (s *Stock) AddOne(ing model.Ingredient) bool {
	if ing.Quantity < 0 {
		return false
	}
	if ing.Quantity == 0 {
		return true
	}
	if i := s.index(ing.Name); i >= 0 {
		s.items[i].Quantity += ing.Quantity
		return true
	}
	ing.RequiredQuantity = 0
	s.items = append(s.items, ing)
	return true
}

// Clear empties the stock.
func (s *Stock) Clear() { s.items = nil }

// Withdraw takes exactly qty of the ingredient out of the stock and returns
// it as a transfer unit. It is all or nothing: when the entry is missing or
// holds less than qty the stock is left untouched.
func (s *Stock) Withdraw(name string, qty int) (model.Ingredient, bool) {
	if qty <= 0 {
		return model.Ingredient{}, false
	}
	i := s.index(name)
	if i < 0 || s.items[i].Quantity < qty {
		return model.Ingredient{}, false
	}
	unit := s.items[i]
	unit.Quantity = qty
	s.items[i].Quantity -= qty
	if s.items[i].Quantity == 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return unit, true
}

// Quantity returns the available quantity, 0 when absent.
func (s *Stock) Quantity(name string) int {
	if i := s.index(name); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// Items returns a copy of the entries in insertion order.
func (s *Stock) Items() []model.Ingredient {
	return append([]model.Ingredient(nil), s.items...)
}

func (s *Stock) Len() int { return len(s.items) }

func (s *Stock) index(name string) int {
	for i := range s.items {
		if s.items[i].Name == name {
			return i
		}
	}
	return -1
}
