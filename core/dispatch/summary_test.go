package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	r := BatchResult{
		Outcomes: []Outcome{
			{Dish: "Soup", Station: "A", Prepared: true, Replenished: true, Attempts: 2},
			{Dish: "Tart", Attempts: 3},
			{Dish: "Salad", Station: "B", Prepared: true, Attempts: 1},
		},
		Transfers: []Transfer{
			{Station: "A", Ingredient: "soup-base", Quantity: 3, Succeeded: true},
			{Station: "A", Ingredient: "flour", Quantity: 9},
			{Station: "B", Ingredient: "lettuce", Quantity: 5, Succeeded: true},
		},
	}
	s := Summarize(r)
	assert.Equal(t, 3, s.Orders)
	assert.Equal(t, 2, s.Prepared)
	assert.Equal(t, 1, s.Failed)
	assert.InDelta(t, 2.0/3.0, s.PreparedRate, 1e-9)
	assert.Equal(t, 3, s.Transfers)
	assert.Equal(t, 8.0, s.UnitsTransferred)
	assert.Equal(t, 4.0, s.MeanTransfer)
	assert.InDelta(t, 1.41421356, s.StdDevTransfer, 1e-6)
	assert.Equal(t, 2.0, s.MeanAttempts)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(BatchResult{}))
}

func TestSummarizeSingleTransfer(t *testing.T) {
	s := Summarize(BatchResult{
		Outcomes:  []Outcome{{Dish: "Soup", Prepared: true, Attempts: 1}},
		Transfers: []Transfer{{Quantity: 3, Succeeded: true}},
	})
	assert.Equal(t, 3.0, s.MeanTransfer)
	assert.Zero(t, s.StdDevTransfer)
}
