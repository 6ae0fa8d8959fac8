package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/brigade/core/model"
)

func TestSnapshot(t *testing.T) {
	e, _ := kitchen(t, 10)

	snap := e.Snapshot()
	assert.Nil(t, snap.LastBatch)
	assert.Equal(t, []string{"Soup"}, snap.Queue)
	require.Len(t, snap.Stations, 2)
	assert.Equal(t, StationView{Name: "B", Dishes: []string{"Salad"}}, snap.Stations[0])
	assert.Equal(t, []model.Ingredient{{Name: "soup-base", Quantity: 2}}, snap.Stations[1].Stock)

	res := e.ProcessAll()
	snap = e.Snapshot()
	require.NotNil(t, snap.LastBatch)
	assert.Equal(t, res.ID, snap.LastBatch.ID)
	assert.Empty(t, snap.Queue)
	assert.Equal(t, []model.Ingredient{{Name: "soup-base", Quantity: 7}}, snap.Backup)

	snap.Backup[0].Quantity = 0
	assert.Equal(t, 7, e.Backup().Quantity("soup-base"), "snapshots are copies")
}
