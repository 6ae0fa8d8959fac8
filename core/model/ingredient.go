package model

// Ingredient is either a stocked quantity (Quantity) or a dish requirement
// (RequiredQuantity) depending on where it is held.
type Ingredient struct {
	Name             string  `json:"name"`
	Quantity         int     `json:"quantity"`
	RequiredQuantity int     `json:"required_quantity"`
	UnitPrice        float64 `json:"unit_price"`
}

// Shortfall returns how much of the requirement is not covered by stocked.
func (i Ingredient) Shortfall(stocked int) int {
	if stocked >= i.RequiredQuantity {
		return 0
	}
	return i.RequiredQuantity - stocked
}
