package etl

import (
	"context"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
)

// LegacyRow is one row read from the legacy schema. Rows are immutable
// from the pipeline's point of view.
type LegacyRow interface {
	// Key returns the legacy integer primary key.
	Key() int64
}

// EntityMigrator defines one entity migration: where to read, where to
// write, which lookups the transform dereferences, and the pure mapping
// itself. One orchestrator drives one migrator; migrators never compose.
type EntityMigrator interface {
	// Name is the entity name used in logs and errors, e.g. "offices".
	Name() string

	// TargetTable is the table primary records are written to.
	TargetTable() string

	// LegacyIDColumn is the target column preserving the legacy id.
	LegacyIDColumn() string

	// RegisterKind is the lookup namespace new writes are registered under.
	RegisterKind() LookupKind

	// RequiredLookups lists the lookup kinds Transform dereferences.
	// The orchestrator builds exactly these before batching begins.
	RequiredLookups() []LookupKind

	// FetchAll materializes the full legacy row set in one read.
	FetchAll(ctx context.Context) ([]LegacyRow, error)

	// Transform maps one legacy row to a MappingResult. Pure: no I/O, and
	// every failure is captured in the result rather than returned.
	Transform(row LegacyRow, lookup *Lookup) *MappingResult
}

// Seeder is implemented by migrators that own a reference table
// (order_types, message_types, instruction_states) populated idempotently
// before batch processing.
type Seeder interface {
	Seed(ctx context.Context, store TargetStore) error
}

// RelationshipSource is implemented by migrators whose records need a
// secondary join row once the primary write has succeeded.
type RelationshipSource interface {
	// Relationships is called only for mappings whose primary write
	// succeeded; m.TargetID is set.
	Relationships(m *MappingResult, lookup *Lookup) []*RelationshipRecord
}

// EmbeddingSource is implemented by migrators whose rows should be queued
// for the embedding side channel after a successful write.
type EmbeddingSource interface {
	// EmbeddingContent returns the text to embed, or false when the row
	// carries nothing worth indexing.
	EmbeddingContent(m *MappingResult) (string, bool)
}

// Enqueuer appends items to the embedding queue. The queue is an append-only
// side channel; enqueue failures never affect migration success.
type Enqueuer interface {
	Enqueue(ctx context.Context, items []models.QueueItem) error
}
