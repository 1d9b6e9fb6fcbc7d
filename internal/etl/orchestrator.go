package etl

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
)

// Phase names one step of the orchestrator's linear state machine.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseValidating      Phase = "validating"
	PhaseBuildingLookups Phase = "building_lookups"
	PhaseFetching        Phase = "fetching"
	PhaseTransforming    Phase = "transforming"
	PhaseWriting         Phase = "writing"
	PhaseStitching       Phase = "stitching"
	PhasePostValidating  Phase = "post_validating"
	PhaseDone            Phase = "done"
	PhaseFailed          Phase = "failed"
)

// Options tunes one orchestrator run.
type Options struct {
	BatchSize           int
	MaxRetries          int
	BatchInterval       time.Duration
	CreateRelationships bool
	ValidateData        bool
	QueueEmbeddings     bool
}

// Orchestrator drives one entity migration end to end:
// validate → build lookups → fetch → {transform → write → stitch}* →
// post-validate. Strictly sequential; partial progress committed before a
// fatal error stays in the target store.
type Orchestrator struct {
	migrator EntityMigrator
	store    TargetStore
	writer   *BatchWriter
	stitcher *Stitcher
	enqueuer Enqueuer // nil when embedding queueing is disabled
	opts     Options
	logger   *zap.Logger

	phase Phase
}

// NewOrchestrator wires an orchestrator for one entity.
func NewOrchestrator(migrator EntityMigrator, store TargetStore, enqueuer Enqueuer, opts Options, logger *zap.Logger) *Orchestrator {
	logger = logger.Named(migrator.Name())
	return &Orchestrator{
		migrator: migrator,
		store:    store,
		writer:   NewBatchWriter(store, opts.MaxRetries, logger),
		stitcher: NewStitcher(store, logger),
		enqueuer: enqueuer,
		opts:     opts,
		logger:   logger,
		phase:    PhaseIdle,
	}
}

// Phase reports the current phase, mostly for tests and error context.
func (o *Orchestrator) Phase() Phase { return o.phase }

// Run executes the migration. The returned Stats are always populated,
// also on the failure path.
func (o *Orchestrator) Run(ctx context.Context) (*Stats, error) {
	stats := NewStats(o.migrator.Name())

	fail := func(err error) (*Stats, error) {
		failedIn := o.phase
		o.phase = PhaseFailed
		stats.Finish()
		o.logger.Error("migration failed", append(stats.Fields(), zap.String("phase", string(failedIn)))...)
		return stats, &PhaseError{Entity: o.migrator.Name(), Phase: failedIn, Stats: stats, Err: err}
	}

	// Validating
	o.enterPhase(PhaseValidating)
	if o.opts.BatchSize <= 0 {
		return fail(fmt.Errorf("batch size must be positive, got %d", o.opts.BatchSize))
	}
	if o.migrator.TargetTable() == "" || o.migrator.LegacyIDColumn() == "" {
		return fail(fmt.Errorf("migrator %s declares no target contract", o.migrator.Name()))
	}

	// BuildingLookups. The migrator's own kind is always included so
	// reruns skip rows a prior run already wrote.
	o.enterPhase(PhaseBuildingLookups)
	kinds := append([]LookupKind{o.migrator.RegisterKind()}, o.migrator.RequiredLookups()...)
	lookup, err := BuildLookup(ctx, o.store, dedupeKinds(kinds), o.logger)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrTargetUnavailable, err))
	}
	preexisting, err := o.store.CountNonNull(ctx, o.migrator.TargetTable(), o.migrator.LegacyIDColumn())
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrTargetUnavailable, err))
	}
	if seeder, ok := o.migrator.(Seeder); ok {
		if err := seeder.Seed(ctx, o.store); err != nil {
			return fail(fmt.Errorf("seed reference data: %w", err))
		}
	}

	// Fetching
	o.enterPhase(PhaseFetching)
	rows, err := o.migrator.FetchAll(ctx)
	if err != nil {
		return fail(err)
	}
	stats.Total = len(rows)
	o.logger.Info("fetched legacy rows", zap.Int("count", len(rows)))

	limiter := rate.NewLimiter(rate.Every(o.opts.BatchInterval), 1)

	for start := 0; start < len(rows); start += o.opts.BatchSize {
		end := start + o.opts.BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]
		batchNum := start/o.opts.BatchSize + 1

		if err := limiter.Wait(ctx); err != nil {
			return fail(err)
		}

		// Transforming
		o.enterPhase(PhaseTransforming)
		writable := make([]*MappingResult, 0, len(batch))
		for _, row := range batch {
			if _, done := lookup.Resolve(o.migrator.RegisterKind(), row.Key()); done {
				stats.Skipped++
				continue
			}

			m := o.migrator.Transform(row, lookup)
			stats.Warnings += len(m.Warnings)
			stats.UnresolvedRefs += m.UnresolvedRefs
			for _, w := range m.Warnings {
				o.logger.Debug("transform warning", zap.Int64("legacy_id", m.LegacyID), zap.String("warning", w))
			}
			if m.Blocked() {
				stats.Failed++
				o.logger.Warn("record excluded",
					zap.Int64("legacy_id", m.LegacyID),
					zap.Strings("errors", m.Errors))
				continue
			}
			writable = append(writable, m)
		}

		// Writing
		o.enterPhase(PhaseWriting)
		res := o.writer.WriteBatch(ctx, writable)
		stats.Created += len(res.Succeeded)
		stats.Failed += len(res.Failed)
		for _, m := range res.Succeeded {
			if err := lookup.Register(o.migrator.RegisterKind(), m.LegacyID, m.TargetID); err != nil {
				return fail(err)
			}
		}

		// Stitching
		o.enterPhase(PhaseStitching)
		if o.opts.CreateRelationships {
			if src, ok := o.migrator.(RelationshipSource); ok {
				for _, m := range res.Succeeded {
					for _, rel := range src.Relationships(m, lookup) {
						if err := o.stitcher.Create(ctx, rel); err != nil {
							stats.RelationshipsFailed++
							m.Warnf("relationship into %s failed: %v", rel.Table, err)
							continue
						}
						stats.RelationshipsCreated++
					}
				}
			}
		}

		o.queueEmbeddings(ctx, res.Succeeded)

		o.logger.Info("batch complete",
			zap.Int("batch", batchNum),
			zap.Int("written", len(res.Succeeded)),
			zap.Int("failed", len(res.Failed)),
			zap.Int("attempts", res.Attempts))
	}

	// PostValidating: migrated-row count must equal prior progress plus
	// what this run created. Already-written data is never rolled back on
	// a mismatch; reconciliation is manual.
	o.enterPhase(PhasePostValidating)
	if o.opts.ValidateData {
		count, err := o.store.CountNonNull(ctx, o.migrator.TargetTable(), o.migrator.LegacyIDColumn())
		if err != nil {
			return fail(fmt.Errorf("%w: %v", ErrTargetUnavailable, err))
		}
		expected := preexisting + int64(stats.Created)
		if count != expected {
			return fail(fmt.Errorf("%w: %s has %d rows with %s, expected %d",
				ErrValidationMismatch, o.migrator.TargetTable(), count, o.migrator.LegacyIDColumn(), expected))
		}
	}

	o.enterPhase(PhaseDone)
	stats.Finish()
	o.logger.Info("migration complete", stats.Fields()...)
	return stats, nil
}

func (o *Orchestrator) queueEmbeddings(ctx context.Context, succeeded []*MappingResult) {
	if !o.opts.QueueEmbeddings || o.enqueuer == nil {
		return
	}
	src, ok := o.migrator.(EmbeddingSource)
	if !ok {
		return
	}

	var items []models.QueueItem
	for _, m := range succeeded {
		content, ok := src.EmbeddingContent(m)
		if !ok {
			continue
		}
		items = append(items, models.QueueItem{
			SourceTable: o.migrator.TargetTable(),
			SourceID:    m.TargetID,
			Operation:   models.QueueOpInsert,
			Content:     content,
		})
	}
	if len(items) == 0 {
		return
	}
	// Side channel only: a queue failure is logged, never fatal.
	if err := o.enqueuer.Enqueue(ctx, items); err != nil {
		o.logger.Warn("embedding enqueue failed", zap.Int("items", len(items)), zap.Error(err))
	}
}

func (o *Orchestrator) enterPhase(p Phase) {
	o.logger.Debug("phase transition", zap.String("from", string(o.phase)), zap.String("to", string(p)))
	o.phase = p
}

func dedupeKinds(kinds []LookupKind) []LookupKind {
	seen := make(map[LookupKind]struct{}, len(kinds))
	out := kinds[:0]
	for _, k := range kinds {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
