package etl

import (
	"time"

	"go.uber.org/zap"
)

// Stats accumulates counters for one orchestrator run. Purely
// observational: nothing in the pipeline branches on these values.
type Stats struct {
	Entity string

	Total                int
	Created              int
	Failed               int
	Skipped              int
	RelationshipsCreated int
	RelationshipsFailed  int
	UnresolvedRefs       int
	Warnings             int

	StartedAt  time.Time
	FinishedAt time.Time
}

// NewStats starts the clock for one run.
func NewStats(entity string) *Stats {
	return &Stats{Entity: entity, StartedAt: time.Now()}
}

// Finish freezes the run duration.
func (s *Stats) Finish() {
	s.FinishedAt = time.Now()
}

// Duration reports elapsed wall-clock time, live until Finish is called.
func (s *Stats) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Fields renders the counters for structured logging.
func (s *Stats) Fields() []zap.Field {
	return []zap.Field{
		zap.String("entity", s.Entity),
		zap.Int("total", s.Total),
		zap.Int("created", s.Created),
		zap.Int("failed", s.Failed),
		zap.Int("skipped", s.Skipped),
		zap.Int("relationships_created", s.RelationshipsCreated),
		zap.Int("relationships_failed", s.RelationshipsFailed),
		zap.Int("unresolved_refs", s.UnresolvedRefs),
		zap.Int("warnings", s.Warnings),
		zap.Duration("duration", s.Duration()),
	}
}
