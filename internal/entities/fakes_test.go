package entities

import "context"

// seedStore counts InsertIgnore calls per table; enough to test seeding.
type seedStore struct {
	rows map[string]int
}

func newSeedStore() *seedStore {
	return &seedStore{rows: make(map[string]int)}
}

func (s *seedStore) InsertRows(context.Context, string, []string, [][]any) error {
	return nil
}

func (s *seedStore) InsertIgnore(_ context.Context, table string, _ []string, _ []any) error {
	s.rows[table]++
	return nil
}

func (s *seedStore) CountNonNull(context.Context, string, string) (int64, error) {
	return 0, nil
}

func (s *seedStore) SelectLegacyPairs(context.Context, string, string) (map[int64]string, error) {
	return nil, nil
}
