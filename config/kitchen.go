package config

import (
	"errors"
	"fmt"

	"github.com/kilianp07/brigade/core/backup"
	"github.com/kilianp07/brigade/core/model"
	"github.com/kilianp07/brigade/core/queue"
	"github.com/kilianp07/brigade/core/registry"
)

// KitchenConfig describes the initial state of the kitchen: the menu, the
// stations in dispatch priority order, the backup stock and the orders.
type KitchenConfig struct {
	Menu     []DishConfig    `json:"menu"`
	Stations []StationConfig `json:"stations"`
	Backup   []StockConfig   `json:"backup"`
	Orders   []OrderConfig   `json:"orders"`
}

type DishConfig struct {
	Name        string              `json:"name"`
	Course      string              `json:"course"`
	Cuisine     string              `json:"cuisine"`
	PrepMinutes int                 `json:"prep_minutes"`
	Price       float64             `json:"price"`
	Ingredients []RequirementConfig `json:"ingredients"`
}

// RequirementConfig is the quantity of an ingredient one dish needs.
type RequirementConfig struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type StationConfig struct {
	Name   string        `json:"name"`
	Dishes []string      `json:"dishes"`
	Stock  []StockConfig `json:"stock"`
}

// StockConfig is a stocked quantity, either at a station or in the backup.
type StockConfig struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderConfig queues Count copies of a menu dish, adjusted for Dietary.
type OrderConfig struct {
	Dish    string               `json:"dish"`
	Count   int                  `json:"count"`
	Dietary model.DietaryRequest `json:"dietary"`
}

// SetDefaults applies sane defaults.
func (c *KitchenConfig) SetDefaults() {
	for i := range c.Orders {
		if c.Orders[i].Count == 0 {
			c.Orders[i].Count = 1
		}
	}
}

// Validate checks that names are unique, references resolve and quantities
// are not negative.
func (c KitchenConfig) Validate() error {
	var errs []error
	menu := make(map[string]bool, len(c.Menu))
	for _, d := range c.Menu {
		switch {
		case d.Name == "":
			errs = append(errs, errors.New("menu dish without name"))
		case menu[d.Name]:
			errs = append(errs, fmt.Errorf("duplicate menu dish %q", d.Name))
		}
		menu[d.Name] = true
		for _, ing := range d.Ingredients {
			if ing.Name == "" || ing.Quantity < 0 {
				errs = append(errs, fmt.Errorf("dish %q: invalid ingredient %q (%d)", d.Name, ing.Name, ing.Quantity))
			}
		}
	}
	stations := make(map[string]bool, len(c.Stations))
	for _, s := range c.Stations {
		switch {
		case s.Name == "":
			errs = append(errs, errors.New("station without name"))
		case stations[s.Name]:
			errs = append(errs, fmt.Errorf("duplicate station %q", s.Name))
		}
		stations[s.Name] = true
		for _, d := range s.Dishes {
			if !menu[d] {
				errs = append(errs, fmt.Errorf("station %q: unknown dish %q", s.Name, d))
			}
		}
		errs = append(errs, validateStock("station "+s.Name, s.Stock)...)
	}
	errs = append(errs, validateStock("backup", c.Backup)...)
	for i, o := range c.Orders {
		if !menu[o.Dish] {
			errs = append(errs, fmt.Errorf("order %d: unknown dish %q", i, o.Dish))
		}
		if o.Count < 0 {
			errs = append(errs, fmt.Errorf("order %d: negative count", i))
		}
	}
	return errors.Join(errs...)
}

func validateStock(owner string, items []StockConfig) []error {
	var errs []error
	for _, s := range items {
		if s.Name == "" || s.Quantity < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid stock %q (%d)", owner, s.Name, s.Quantity))
		}
	}
	return errs
}

// Dish builds the menu entry called name.
func (c KitchenConfig) Dish(name string) (*model.Dish, bool) {
	for _, d := range c.Menu {
		if d.Name != name {
			continue
		}
		dish := &model.Dish{
			Name:        d.Name,
			Course:      model.ParseCourse(d.Course),
			Cuisine:     d.Cuisine,
			PrepMinutes: d.PrepMinutes,
			Price:       d.Price,
		}
		for _, ing := range d.Ingredients {
			dish.Ingredients = append(dish.Ingredients, model.Ingredient{
				Name:             ing.Name,
				RequiredQuantity: ing.Quantity,
				UnitPrice:        ing.UnitPrice,
			})
		}
		return dish, true
	}
	return nil, false
}

// BuildRegistry creates the stations in configuration order. Every station
// holds its own copy of its dishes.
func (c KitchenConfig) BuildRegistry() (*registry.Registry, error) {
	reg := registry.New()
	for _, sc := range c.Stations {
		st := model.NewStation(sc.Name)
		for _, name := range sc.Dishes {
			d, ok := c.Dish(name)
			if !ok {
				return nil, fmt.Errorf("station %q: unknown dish %q", sc.Name, name)
			}
			st.AssignDish(d)
		}
		for _, s := range sc.Stock {
			st.Replenish(s.ingredient())
		}
		if !reg.Add(st) {
			return nil, fmt.Errorf("duplicate station %q", sc.Name)
		}
	}
	return reg, nil
}

// BuildBackup creates the backup stock.
func (c KitchenConfig) BuildBackup() *backup.Stock {
	items := make([]model.Ingredient, 0, len(c.Backup))
	for _, s := range c.Backup {
		items = append(items, s.ingredient())
	}
	return backup.New(items...)
}

// BuildQueue queues the orders in configuration order, applying each
// order's dietary request to a fresh copy of the menu dish.
func (c KitchenConfig) BuildQueue() (*queue.Queue, error) {
	q := queue.New()
	for i, o := range c.Orders {
		for n := 0; n < o.Count; n++ {
			d, ok := c.Dish(o.Dish)
			if !ok {
				return nil, fmt.Errorf("order %d: unknown dish %q", i, o.Dish)
			}
			q.PushWithAdjustment(d, o.Dietary)
		}
	}
	return q, nil
}

func (s StockConfig) ingredient() model.Ingredient {
	return model.Ingredient{Name: s.Name, Quantity: s.Quantity, UnitPrice: s.UnitPrice}
}
