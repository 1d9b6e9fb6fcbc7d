package etl

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TargetStore is the narrow surface of the target database the pipeline
// uses. Table and column names come from the fixed schema contract in
// pkg/models, never from input data.
type TargetStore interface {
	// InsertRows performs one bulk insert. The call is atomic-on-failure:
	// an error means the whole batch is treated as failed.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) error

	// InsertIgnore inserts a single row, ignoring composite-unique
	// conflicts. Used for relationship records and seed tables.
	InsertIgnore(ctx context.Context, table string, columns []string, row []any) error

	// CountNonNull counts rows where the given column is non-null.
	CountNonNull(ctx context.Context, table, column string) (int64, error)

	// SelectLegacyPairs returns legacy id → target id for all rows with a
	// non-null legacy id column.
	SelectLegacyPairs(ctx context.Context, table, column string) (map[int64]string, error)
}

// PgxStore implements TargetStore on a pgx connection pool.
type PgxStore struct {
	pool *pgxpool.Pool
}

// NewPgxStore wraps a pool.
func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{pool: pool}
}

var _ TargetStore = (*PgxStore)(nil)

func (s *PgxStore) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, val := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", len(args)+1)
			args = append(args, val)
		}
		sb.WriteString(")")
	}

	if _, err := s.pool.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("bulk insert into %s: %w", table, err)
	}
	return nil
}

func (s *PgxStore) InsertIgnore(ctx context.Context, table string, columns []string, row []any) error {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if _, err := s.pool.Exec(ctx, query, row...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (s *PgxStore) CountNonNull(ctx context.Context, table, column string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s IS NOT NULL", table, column)

	var count int64
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s.%s: %w", table, column, err)
	}
	return count, nil
}

func (s *PgxStore) SelectLegacyPairs(ctx context.Context, table, column string) (map[int64]string, error) {
	query := fmt.Sprintf("SELECT %s, id FROM %s WHERE %s IS NOT NULL", column, table, column)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select legacy pairs from %s: %w", table, err)
	}
	defer rows.Close()

	pairs := make(map[int64]string)
	for rows.Next() {
		var legacyID int64
		var targetID string
		if err := rows.Scan(&legacyID, &targetID); err != nil {
			return nil, fmt.Errorf("scan legacy pair: %w", err)
		}
		pairs[legacyID] = targetID
	}
	return pairs, rows.Err()
}
