package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/config"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/embedding"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/entities"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/database"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/logger"
)

// runMigration executes the named entity migrations strictly in order.
// The first fatal error stops the whole run; progress already committed
// stays in the target store.
func runMigration(ctx context.Context, opts *MigrateOptions, names []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.BatchSize > 0 {
		cfg.BatchSize = opts.BatchSize
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer log.Sync()

	legacyDB, err := database.ConnectLegacy(ctx, cfg.LegacyDatabaseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", etl.ErrSourceUnavailable, err)
	}
	defer legacyDB.Close()

	pool, err := database.ConnectTarget(ctx, cfg.TargetDatabaseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", etl.ErrTargetUnavailable, err)
	}
	defer pool.Close()

	reader := legacy.NewReader(legacyDB, log)
	store := etl.NewPgxStore(pool)

	var enqueuer etl.Enqueuer
	if cfg.QueueEmbeddings {
		enqueuer = embedding.NewQueue(pool, log)
	}

	etlOpts := etl.Options{
		BatchSize:           cfg.BatchSize,
		MaxRetries:          cfg.MaxRetries,
		BatchInterval:       cfg.BatchInterval,
		CreateRelationships: cfg.CreateRelationships,
		ValidateData:        cfg.ValidateData,
		QueueEmbeddings:     cfg.QueueEmbeddings,
	}

	for _, name := range names {
		migrator, err := entities.New(name, reader, cfg.ValidateData)
		if err != nil {
			return err
		}

		log.Info("starting migration",
			zap.String("entity", name),
			zap.Int("batch_size", cfg.BatchSize))

		orch := etl.NewOrchestrator(migrator, store, enqueuer, etlOpts, log)
		if _, err := orch.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}

// runEmbedWorker drains the embedding queue once.
func runEmbedWorker(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer log.Sync()

	pool, err := database.ConnectTarget(ctx, cfg.TargetDatabaseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", etl.ErrTargetUnavailable, err)
	}
	defer pool.Close()

	client, err := embedding.NewClient(embedding.ClientConfig{
		BaseURL: cfg.Embedding.BaseURL,
		APIKey:  cfg.Embedding.APIKey,
		Model:   cfg.Embedding.Model,
	}, log)
	if err != nil {
		return err
	}

	queue := embedding.NewQueue(pool, log)
	worker := embedding.NewWorker(queue, client, cfg.Embedding.ChunkSize, log)

	processed, failed, err := worker.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("embed run finished", zap.Int("processed", processed), zap.Int("failed", failed))
	return nil
}
