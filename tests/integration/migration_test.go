package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/entities"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/database"
)

// TestOfficesMigration runs the offices migrator against real databases.
// Both DSNs must point at disposable instances with the legacy and target
// schemas applied; the test is skipped otherwise.
func TestOfficesMigration(t *testing.T) {
	legacyDSN := os.Getenv("LEGACY_DATABASE_URL")
	targetDSN := os.Getenv("TARGET_DATABASE_URL")
	if legacyDSN == "" || targetDSN == "" {
		t.Skip("LEGACY_DATABASE_URL and TARGET_DATABASE_URL not set")
	}

	ctx := context.Background()

	legacyDB, err := database.ConnectLegacy(ctx, legacyDSN)
	if err != nil {
		t.Fatalf("connect legacy: %v", err)
	}
	defer legacyDB.Close()

	targetPool, err := database.ConnectTarget(ctx, targetDSN)
	if err != nil {
		t.Fatalf("connect target: %v", err)
	}
	defer targetPool.Close()

	cleanupTestData(t, legacyDB, targetPool)
	defer cleanupTestData(t, legacyDB, targetPool)
	insertTestOffice(t, legacyDB)

	logger := zap.NewNop()
	reader := legacy.NewReader(legacyDB, logger)
	store := etl.NewPgxStore(targetPool)

	migrator, err := entities.New("offices", reader, true)
	if err != nil {
		t.Fatalf("build migrator: %v", err)
	}

	orch := etl.NewOrchestrator(migrator, store, nil, etl.Options{
		BatchSize:           50,
		MaxRetries:          1,
		BatchInterval:       10 * time.Millisecond,
		CreateRelationships: false,
		ValidateData:        true,
	}, logger)

	stats, err := orch.Run(ctx)
	if err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	if stats.Created < 1 {
		t.Fatalf("expected at least one created office, got %+v", stats)
	}

	var name string
	err = targetPool.QueryRow(ctx,
		`SELECT name FROM offices WHERE legacy_office_id = $1`, 990001).Scan(&name)
	if err != nil {
		t.Fatalf("migrated office not found: %v", err)
	}
	if name != "Integration Test Office" {
		t.Errorf("expected office name to survive the mapping, got %q", name)
	}

	// A second run must be a no-op for the same legacy row.
	rerun, err := etl.NewOrchestrator(migrator, store, nil, etl.Options{
		BatchSize:     50,
		BatchInterval: 10 * time.Millisecond,
		ValidateData:  true,
	}, logger).Run(ctx)
	if err != nil {
		t.Fatalf("rerun failed: %v", err)
	}
	if rerun.Skipped < 1 {
		t.Errorf("expected the rerun to skip the migrated office, got %+v", rerun)
	}
}

func insertTestOffice(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec(`
		INSERT INTO dispatch_office (id, name, address, city, state, zip_code, phone, valid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		990001, "Integration Test Office", "1 Main St", "Austin", "TX", "78701", "555-0100", true)
	if err != nil {
		t.Fatalf("insert test office: %v", err)
	}
}

func cleanupTestData(t *testing.T, legacyDB *sqlx.DB, targetPool *pgxpool.Pool) {
	if _, err := legacyDB.Exec(`DELETE FROM dispatch_office WHERE id = $1`, 990001); err != nil {
		t.Logf("legacy cleanup: %v", err)
	}
	if _, err := targetPool.Exec(context.Background(),
		`DELETE FROM offices WHERE legacy_office_id = $1`, 990001); err != nil {
		t.Logf("target cleanup: %v", err)
	}
}
