// Package embedding implements the optional post-migration side channel:
// an append-only queue table fed by the core migration and drained by a
// worker that pushes text into an OpenAI-compatible embedding service.
// Nothing here participates in migration success or failure.
package embedding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
)

// Queue is the embedding_queue table access layer.
type Queue struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewQueue wraps a target pool.
func NewQueue(pool *pgxpool.Pool, logger *zap.Logger) *Queue {
	return &Queue{pool: pool, logger: logger.Named("embedding-queue")}
}

var _ etl.Enqueuer = (*Queue)(nil)

// Enqueue appends work items. Called by the orchestrator after successful
// batch writes.
func (q *Queue) Enqueue(ctx context.Context, items []models.QueueItem) error {
	for _, item := range items {
		_, err := q.pool.Exec(ctx, `
			INSERT INTO embedding_queue (source_table, source_id, operation, content, processed, created_at)
			VALUES ($1, $2, $3, $4, false, now())`,
			item.SourceTable, item.SourceID, string(item.Operation), item.Content)
		if err != nil {
			return fmt.Errorf("enqueue %s/%s: %w", item.SourceTable, item.SourceID, err)
		}
	}
	return nil
}

// Pending returns up to limit unprocessed items, oldest first.
func (q *Queue) Pending(ctx context.Context, limit int) ([]models.QueueItem, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT id, source_table, source_id, operation, content
		FROM embedding_queue
		WHERE NOT processed
		ORDER BY id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select pending queue items: %w", err)
	}
	defer rows.Close()

	var items []models.QueueItem
	for rows.Next() {
		var item models.QueueItem
		var op string
		if err := rows.Scan(&item.ID, &item.SourceTable, &item.SourceID, &op, &item.Content); err != nil {
			return nil, fmt.Errorf("scan queue item: %w", err)
		}
		item.Operation = models.QueueOperation(op)
		items = append(items, item)
	}
	return items, rows.Err()
}

// StoreDocument writes the embedding vector into the documents table and
// returns the new document id.
func (q *Queue) StoreDocument(ctx context.Context, item models.QueueItem, vector []float32) (string, error) {
	embedded, err := json.Marshal(vector)
	if err != nil {
		return "", fmt.Errorf("marshal embedding: %w", err)
	}

	docID := uuid.NewString()
	_, err = q.pool.Exec(ctx, `
		INSERT INTO documents (id, source_table, source_id, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		docID, item.SourceTable, item.SourceID, item.Content, embedded)
	if err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}
	return docID, nil
}

// MarkProcessed records the document id and closes the item.
func (q *Queue) MarkProcessed(ctx context.Context, id int64, documentID string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE embedding_queue
		SET processed = true, document_id = $2, error = NULL, processed_at = now()
		WHERE id = $1`, id, documentID)
	if err != nil {
		return fmt.Errorf("mark queue item %d processed: %w", id, err)
	}
	return nil
}

// MarkFailed records the error; the item stays visible for inspection but
// is not retried automatically.
func (q *Queue) MarkFailed(ctx context.Context, id int64, msg string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE embedding_queue
		SET processed = true, error = $2, processed_at = now()
		WHERE id = $1`, id, msg)
	if err != nil {
		return fmt.Errorf("mark queue item %d failed: %w", id, err)
	}
	return nil
}
