package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchResult partitions one write attempt. The bulk API gives no per-row
// granularity on failure, so a failed call marks every submitted record
// failed with the same error.
type BatchResult struct {
	Succeeded []*MappingResult
	Failed    []*MappingResult
	Attempts  int
	Err       error
}

// BatchWriter issues one bulk insert per WriteBatch call. The caller
// controls batch size; nothing is split here. A failed bulk call is
// retried with exponential backoff up to MaxRetries before the batch is
// declared failed.
type BatchWriter struct {
	store      TargetStore
	maxRetries uint64
	logger     *zap.Logger
}

// NewBatchWriter creates a writer. maxRetries bounds retries of a single
// bulk call; 0 means one attempt only.
func NewBatchWriter(store TargetStore, maxRetries int, logger *zap.Logger) *BatchWriter {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &BatchWriter{
		store:      store,
		maxRetries: uint64(maxRetries),
		logger:     logger.Named("batch-writer"),
	}
}

// WriteBatch assigns target ids, serializes settings/metadata and issues
// the bulk insert. On success every mapping gets its TargetID; on final
// failure every mapping carries the store's error.
func (w *BatchWriter) WriteBatch(ctx context.Context, mappings []*MappingResult) *BatchResult {
	res := &BatchResult{}
	if len(mappings) == 0 {
		return res
	}

	table := mappings[0].Record.Table
	columns, rows, ids, err := buildRows(mappings)
	if err != nil {
		res.Err = err
		res.Failed = mappings
		markFailed(mappings, err)
		return res
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), w.maxRetries), ctx)

	err = backoff.Retry(func() error {
		res.Attempts++
		return w.store.InsertRows(ctx, table, columns, rows)
	}, bo)

	if err != nil {
		w.logger.Error("batch write failed",
			zap.String("table", table),
			zap.Int("records", len(mappings)),
			zap.Int("attempts", res.Attempts),
			zap.Error(err))
		res.Err = err
		res.Failed = mappings
		markFailed(mappings, err)
		return res
	}

	for i, m := range mappings {
		m.TargetID = ids[i]
		m.Written = true
	}
	res.Succeeded = mappings
	return res
}

func markFailed(mappings []*MappingResult, err error) {
	for _, m := range mappings {
		m.Errorf("batch write: %v", err)
	}
}

// buildRows flattens records into a uniform column list. Column order is
// id, legacy id, sorted entity fields, settings, metadata; records missing
// a field get null rather than skewing the row shape.
func buildRows(mappings []*MappingResult) (columns []string, rows [][]any, ids []string, err error) {
	first := mappings[0].Record

	fieldSet := make(map[string]struct{})
	for _, m := range mappings {
		for col := range m.Record.Fields {
			fieldSet[col] = struct{}{}
		}
	}
	fieldCols := make([]string, 0, len(fieldSet))
	for col := range fieldSet {
		fieldCols = append(fieldCols, col)
	}
	sort.Strings(fieldCols)

	columns = append([]string{"id", first.LegacyColumn}, fieldCols...)
	columns = append(columns, "settings", "metadata", "created_at")

	now := time.Now().UTC()
	for _, m := range mappings {
		id := uuid.NewString()
		ids = append(ids, id)

		row := make([]any, 0, len(columns))
		row = append(row, id, m.Record.LegacyID)
		for _, col := range fieldCols {
			row = append(row, m.Record.Fields[col])
		}

		settings, err := marshalJSONB(m.Record.Settings)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("record %d: marshal settings: %w", m.LegacyID, err)
		}
		metadata, err := marshalJSONB(m.Record.Metadata)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("record %d: marshal metadata: %w", m.LegacyID, err)
		}
		row = append(row, settings, metadata, now)
		rows = append(rows, row)
	}
	return columns, rows, ids, nil
}

func marshalJSONB(obj map[string]any) ([]byte, error) {
	if obj == nil {
		obj = map[string]any{}
	}
	return json.Marshal(obj)
}
