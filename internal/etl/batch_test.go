package etl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testMapping(legacyID int64, fields map[string]any) *MappingResult {
	m := NewMappingResult(legacyID)
	m.Record = &Record{
		Table:        "offices",
		LegacyColumn: "legacy_office_id",
		LegacyID:     legacyID,
		Fields:       fields,
	}
	return m
}

func TestWriteBatchAssignsTargetIDs(t *testing.T) {
	store := newFakeStore()
	writer := NewBatchWriter(store, 0, zap.NewNop())

	mappings := []*MappingResult{
		testMapping(1, map[string]any{"name": "A"}),
		testMapping(2, map[string]any{"name": "B"}),
	}

	res := writer.WriteBatch(context.Background(), mappings)
	require.NoError(t, res.Err)
	require.Len(t, res.Succeeded, 2)
	assert.Empty(t, res.Failed)
	assert.Equal(t, 1, res.Attempts)

	seen := map[string]bool{}
	for _, m := range mappings {
		assert.True(t, m.Written)
		assert.NotEmpty(t, m.TargetID)
		assert.False(t, seen[m.TargetID], "target ids must be unique")
		seen[m.TargetID] = true
	}
}

func TestWriteBatchFailureMarksWholeBatch(t *testing.T) {
	store := newFakeStore()
	store.failInserts = 10 // more failures than retries allowed
	writer := NewBatchWriter(store, 2, zap.NewNop())

	mappings := []*MappingResult{
		testMapping(1, map[string]any{"name": "A"}),
		testMapping(2, map[string]any{"name": "B"}),
	}

	res := writer.WriteBatch(context.Background(), mappings)
	require.Error(t, res.Err)
	assert.Empty(t, res.Succeeded)
	require.Len(t, res.Failed, 2, "a failed bulk call fails every submitted record")
	assert.Equal(t, 3, res.Attempts, "initial attempt plus two retries")
	for _, m := range mappings {
		assert.False(t, m.Written)
		assert.True(t, m.Blocked())
	}
}

func TestWriteBatchRetriesTransientFailure(t *testing.T) {
	store := newFakeStore()
	store.failInserts = 1
	writer := NewBatchWriter(store, 3, zap.NewNop())

	res := writer.WriteBatch(context.Background(), []*MappingResult{
		testMapping(1, map[string]any{"name": "A"}),
	})
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Attempts)
	assert.Len(t, res.Succeeded, 1)
}

func TestWriteBatchEmptyIsNoop(t *testing.T) {
	store := newFakeStore()
	writer := NewBatchWriter(store, 0, zap.NewNop())

	res := writer.WriteBatch(context.Background(), nil)
	require.NoError(t, res.Err)
	assert.Empty(t, store.batchSizes)
}

func TestBuildRowsUniformColumns(t *testing.T) {
	mappings := []*MappingResult{
		testMapping(1, map[string]any{"name": "A", "city": "Austin"}),
		testMapping(2, map[string]any{"name": "B"}), // no city
	}

	columns, rows, ids, err := buildRows(mappings)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "legacy_office_id", "city", "name", "settings", "metadata", "created_at"}, columns)
	require.Len(t, rows, 2)
	require.Len(t, ids, 2)
	for _, row := range rows {
		assert.Len(t, row, len(columns))
	}
	assert.Nil(t, rows[1][2], "missing field becomes null, not a skewed row")
	assert.Equal(t, int64(1), rows[0][1])
}
