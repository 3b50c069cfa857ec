package migrations

import (
	"testing"

	"github.com/ridi/hms/internal/platform/db"
)

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := db.NewMigratorFS(nil, Files).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Errorf("expected contiguous versions, migration %d has version %d", i, m.Version)
		}
		if m.SQL == "" {
			t.Errorf("migration %s is empty", m.Name)
		}
	}
}
