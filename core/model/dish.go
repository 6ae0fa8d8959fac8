package model

import "strings"

// Course classifies a dish on the menu.
type Course int

const (
	CourseUnspecified Course = iota
	CourseAppetizer
	CourseMain
	CourseDessert
)

func (c Course) String() string {
	switch c {
	case CourseAppetizer:
		return "appetizer"
	case CourseMain:
		return "main"
	case CourseDessert:
		return "dessert"
	default:
		return "unspecified"
	}
}

// ParseCourse maps a configuration value to a Course. Unknown values map to
// CourseUnspecified.
func ParseCourse(s string) Course {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "appetizer", "starter":
		return CourseAppetizer
	case "main", "main_course", "entree":
		return CourseMain
	case "dessert":
		return CourseDessert
	default:
		return CourseUnspecified
	}
}

// DietaryRequest lists the accommodations a guest asked for.
type DietaryRequest struct {
	Vegetarian bool `json:"vegetarian"`
	Vegan      bool `json:"vegan"`
	GlutenFree bool `json:"gluten_free"`
	NutFree    bool `json:"nut_free"`
	LowSodium  bool `json:"low_sodium"`
	LowSugar   bool `json:"low_sugar"`
}

// Empty reports whether no accommodation is requested.
func (r DietaryRequest) Empty() bool {
	return r == DietaryRequest{}
}

// Dish is a menu item together with its ingredient requirements.
type Dish struct {
	Name        string       `json:"name"`
	Course      Course       `json:"course"`
	Cuisine     string       `json:"cuisine"`
	PrepMinutes int          `json:"prep_minutes"`
	Price       float64      `json:"price"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Clone returns a deep copy so that adjustments on one order do not leak into
// the menu or other orders.
func (d *Dish) Clone() *Dish {
	if d == nil {
		return nil
	}
	c := *d
	c.Ingredients = append([]Ingredient(nil), d.Ingredients...)
	return &c
}

var (
	meatIngredients  = []string{"meat", "beef", "pork", "chicken", "lamb", "bacon", "fish", "shrimp"}
	animalProducts   = []string{"egg", "milk", "cheese", "butter", "cream", "honey", "yogurt"}
	nutIngredients   = []string{"nut", "almond", "peanut", "walnut", "pecan", "cashew", "pistachio", "hazelnut"}
	glutenSwaps      = []string{"flour", "bread", "pasta", "noodle", "crust"}
	plantProteinName = "Tofu"
)

// ApplyDietaryAdjustment rewrites the ingredient list in place to honour the
// request. Meat becomes plant protein, animal products are dropped for vegan
// requests, gluten carriers are swapped for gluten-free variants, nuts are
// dropped and salt/sugar requirements are halved.
func (d *Dish) ApplyDietaryAdjustment(req DietaryRequest) {
	if d == nil || req.Empty() {
		return
	}
	out := d.Ingredients[:0]
	for _, ing := range d.Ingredients {
		lower := strings.ToLower(ing.Name)
		switch {
		case (req.Vegetarian || req.Vegan) && containsAny(lower, meatIngredients):
			ing.Name = plantProteinName
		case req.Vegan && containsAny(lower, animalProducts):
			continue
		case req.NutFree && containsAny(lower, nutIngredients):
			continue
		}
		if req.GlutenFree && containsAny(lower, glutenSwaps) && !strings.HasPrefix(lower, "gluten-free") {
			ing.Name = "Gluten-Free " + ing.Name
		}
		if req.LowSodium && lower == "salt" {
			ing.RequiredQuantity = halve(ing.RequiredQuantity)
		}
		if req.LowSugar && lower == "sugar" {
			ing.RequiredQuantity = halve(ing.RequiredQuantity)
		}
		out = mergeRequirement(out, ing)
	}
	d.Ingredients = out
}

// Requirement returns the required quantity of name, 0 when not needed.
func (d *Dish) Requirement(name string) int {
	for _, ing := range d.Ingredients {
		if ing.Name == name {
			return ing.RequiredQuantity
		}
	}
	return 0
}

func mergeRequirement(list []Ingredient, ing Ingredient) []Ingredient {
	for i := range list {
		if list[i].Name == ing.Name {
			list[i].RequiredQuantity += ing.RequiredQuantity
			return list
		}
	}
	return append(list, ing)
}

func halve(q int) int {
	if q <= 1 {
		return q
	}
	return q / 2
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
