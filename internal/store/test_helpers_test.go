package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/stockroom/internal/model"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestItem creates a live item with the given stock figures.
func createTestItem(id, name string, quantity int, price float64, threshold int) model.Item {
	return model.Item{
		ID:          id,
		Name:        name,
		Category:    "Paper",
		Quantity:    quantity,
		Price:       price,
		Threshold:   threshold,
		Dirty:       true,
		LastUpdated: testTime,
	}
}

// mustInsertItem inserts item or fails the test.
func mustInsertItem(t *testing.T, s *Store, item model.Item) {
	t.Helper()
	if err := s.InsertItem(t.Context(), item); err != nil {
		t.Fatalf("InsertItem(%s) failed: %v", item.ID, err)
	}
}
