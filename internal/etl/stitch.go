package etl

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// RelationshipRecord is a secondary join row created after its two
// endpoints exist in the target store, e.g. a doctor-office association.
// Uniqueness is enforced by the target schema's composite key; replays
// are absorbed by conflict-ignore semantics.
type RelationshipRecord struct {
	Table  string
	Fields map[string]any
}

// Stitcher writes relationship records. A stitch failure never rolls back
// the primary record it refers to; the primary-succeeds policy accepts a
// missing association over blocking the pipeline.
type Stitcher struct {
	store  TargetStore
	logger *zap.Logger
}

// NewStitcher creates a stitcher.
func NewStitcher(store TargetStore, logger *zap.Logger) *Stitcher {
	return &Stitcher{store: store, logger: logger.Named("stitcher")}
}

// Create inserts one relationship record.
func (s *Stitcher) Create(ctx context.Context, rel *RelationshipRecord) error {
	columns := make([]string, 0, len(rel.Fields))
	for col := range rel.Fields {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	row := make([]any, len(columns))
	for i, col := range columns {
		row[i] = rel.Fields[col]
	}

	if err := s.store.InsertIgnore(ctx, rel.Table, columns, row); err != nil {
		s.logger.Error("relationship write failed",
			zap.String("table", rel.Table),
			zap.Error(err))
		return err
	}
	return nil
}
