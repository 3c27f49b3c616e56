package sqlite

import (
	"os"
	"testing"

	"sunsite/internal/storage"
)

func TestStoreImplementsInterface(t *testing.T) {
	t.Parallel()
	var _ storage.Store = (*Store)(nil)
}

func TestNewStore(t *testing.T) {
	t.Parallel()
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer store.Close()

	if store == nil {
		t.Fatal("Store is nil")
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	tempDir := t.TempDir()
	dbPath, _ := os.CreateTemp(tempDir, "test_site.*.db")

	store, err := NewStore(dbPath.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := store.Migrate("../../../migrations"); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
