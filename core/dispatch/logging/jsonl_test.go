package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLStore_AppendQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	now := time.Now()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, sampleRecord("b1", now)))
	require.NoError(t, store.Append(ctx, LogRecord{Timestamp: now, BatchID: "b2", Failed: []string{"Pie"}}))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	all, err := store.Query(ctx, LogQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pie, err := store.Query(ctx, LogQuery{Dish: "Pie"})
	require.NoError(t, err)
	require.Len(t, pie, 1)
	assert.Equal(t, "b2", pie[0].BatchID)

	none, err := store.Query(ctx, LogQuery{End: now.Add(-time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLogQueryMatches(t *testing.T) {
	rec := sampleRecord("b1", time.Unix(100, 0))
	assert.True(t, LogQuery{}.Matches(rec))
	assert.True(t, LogQuery{Dish: "Soup"}.Matches(rec))
	assert.True(t, LogQuery{Dish: "Cake"}.Matches(rec))
	assert.True(t, LogQuery{Station: "A"}.Matches(rec))
	assert.False(t, LogQuery{Station: "B"}.Matches(rec))
	assert.False(t, LogQuery{BatchID: "b2"}.Matches(rec))
	assert.False(t, LogQuery{Start: time.Unix(200, 0)}.Matches(rec))
}
