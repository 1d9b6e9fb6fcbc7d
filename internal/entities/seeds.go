// Package entities holds one migrator per legacy entity type. Each
// migrator declares its target contract and required lookups, fetches its
// legacy rows, and maps them to target records; the etl orchestrator does
// the rest.
package entities

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
)

// seedID derives a stable id for a reference row, so seeding is idempotent
// across runs without reading ids back.
func seedID(table, code string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(table+":"+code)).String()
}

// seedReference upserts code/label rows into a reference table.
func seedReference(ctx context.Context, store etl.TargetStore, table string, codes map[string]string) error {
	columns := []string{"id", "code", "label", "created_at"}
	now := time.Now().UTC()
	for code, label := range codes {
		row := []any{seedID(table, code), code, label, now}
		if err := store.InsertIgnore(ctx, table, columns, row); err != nil {
			return err
		}
	}
	return nil
}
