package embedding

import (
	"context"

	"go.uber.org/zap"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
)

// Embedder is the service surface the worker consumes.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// QueueStore is the queue surface the worker consumes; *Queue implements it.
type QueueStore interface {
	Pending(ctx context.Context, limit int) ([]models.QueueItem, error)
	StoreDocument(ctx context.Context, item models.QueueItem, vector []float32) (string, error)
	MarkProcessed(ctx context.Context, id int64, documentID string) error
	MarkFailed(ctx context.Context, id int64, msg string) error
}

// Worker drains the embedding queue in fixed-size chunks until empty.
// Item failures are recorded on the item and never stop the drain.
type Worker struct {
	queue    QueueStore
	embedder Embedder
	chunk    int
	logger   *zap.Logger
}

// NewWorker creates a queue worker.
func NewWorker(queue QueueStore, embedder Embedder, chunk int, logger *zap.Logger) *Worker {
	if chunk <= 0 {
		chunk = 50
	}
	return &Worker{queue: queue, embedder: embedder, chunk: chunk, logger: logger.Named("embedding-worker")}
}

// Run processes pending items until the queue is empty or ctx is done.
// Returns processed and failed counts.
func (w *Worker) Run(ctx context.Context) (processed, failed int, err error) {
	for {
		items, err := w.queue.Pending(ctx, w.chunk)
		if err != nil {
			return processed, failed, err
		}
		if len(items) == 0 {
			w.logger.Info("queue drained", zap.Int("processed", processed), zap.Int("failed", failed))
			return processed, failed, nil
		}

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return processed, failed, err
			}

			vector, err := w.embedder.Embed(ctx, item.Content)
			if err != nil {
				failed++
				w.logger.Warn("embedding failed",
					zap.Int64("item", item.ID),
					zap.String("source", item.SourceTable+"/"+item.SourceID),
					zap.Error(err))
				if markErr := w.queue.MarkFailed(ctx, item.ID, err.Error()); markErr != nil {
					return processed, failed, markErr
				}
				continue
			}

			docID, err := w.queue.StoreDocument(ctx, item, vector)
			if err != nil {
				failed++
				if markErr := w.queue.MarkFailed(ctx, item.ID, err.Error()); markErr != nil {
					return processed, failed, markErr
				}
				continue
			}
			if err := w.queue.MarkProcessed(ctx, item.ID, docID); err != nil {
				return processed, failed, err
			}
			processed++
		}
	}
}
