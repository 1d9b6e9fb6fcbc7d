package etl

import (
	"context"
	"fmt"
	"sync"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
)

// fakeStore is an in-memory TargetStore used across the engine tests.
type fakeStore struct {
	mu sync.Mutex

	// batchSizes records the row count of every InsertRows call.
	batchSizes []int
	// failInserts makes the next N InsertRows calls fail.
	failInserts int
	// loseRows undercounts that many rows of the next successful insert,
	// so post-run counts disagree with what the writer reported.
	loseRows int

	// ignores records every InsertIgnore call as table/fields.
	ignores []ignoredRow

	// pairs and counts are keyed "table.column".
	pairs  map[string]map[int64]string
	counts map[string]int64
}

type ignoredRow struct {
	table   string
	columns []string
	row     []any
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pairs:  make(map[string]map[int64]string),
		counts: make(map[string]int64),
	}
}

func (s *fakeStore) InsertRows(_ context.Context, table string, columns []string, rows [][]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batchSizes = append(s.batchSizes, len(rows))
	if s.failInserts > 0 {
		s.failInserts--
		return fmt.Errorf("store rejected batch")
	}
	counted := len(rows) - s.loseRows
	if counted < 0 {
		counted = 0
	}
	s.loseRows = 0
	// columns[1] is the legacy id column by construction.
	s.counts[table+"."+columns[1]] += int64(counted)
	return nil
}

func (s *fakeStore) InsertIgnore(_ context.Context, table string, columns []string, row []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignores = append(s.ignores, ignoredRow{table: table, columns: columns, row: row})
	return nil
}

func (s *fakeStore) CountNonNull(_ context.Context, table, column string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[table+"."+column], nil
}

func (s *fakeStore) SelectLegacyPairs(_ context.Context, table, column string) (map[int64]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pairs[table+"."+column], nil
}

// fakeEnqueuer records embedding queue appends, or fails them all.
type fakeEnqueuer struct {
	items []models.QueueItem
	err   error
}

func (e *fakeEnqueuer) Enqueue(_ context.Context, items []models.QueueItem) error {
	if e.err != nil {
		return e.err
	}
	e.items = append(e.items, items...)
	return nil
}
