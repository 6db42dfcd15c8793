package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyderfleet/fleetops/internal/docstore"
	"github.com/hyderfleet/fleetops/internal/infrastructure/database"
	_ "github.com/hyderfleet/fleetops/migrations"
)

const testSecret = "test-secret-key-at-least-32-chars!"

// testStore opens a migrated store in a temp dir.
func testStore(t *testing.T) *docstore.Store {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "auth.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return docstore.New(db)
}

// testService returns a service whose clock is controlled by the returned pointer.
func testService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(NewUserRepository(testStore(t)), testSecret, DefaultTokenTTL)
	svc.now = func() time.Time { return clock }
	return svc, &clock
}
