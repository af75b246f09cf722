package usage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testRecord(id string, at time.Time) *Record {
	return &Record{
		ID:         id,
		Time:       at,
		SessionID:  "sess-1",
		RequestID:  "req-1",
		Provider:   "openai",
		Model:      "gpt-4o",
		Status:     "success",
		Tokens:     12,
		DurationMS: 340,
	}
}

// storageUnderTest runs the shared storage contract against a backend.
func storageUnderTest(t *testing.T, storage Storage) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := storage.Store(ctx, testRecord("r1", now.Add(-48*time.Hour))); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if err := storage.Store(ctx, testRecord("r2", now)); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	count, err := storage.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 records, got %d", count)
	}

	recent, err := storage.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "r2" {
		t.Errorf("expected newest record first, got %+v", recent)
	}

	deleted, err := storage.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted record, got %d", deleted)
	}

	count, _ = storage.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 remaining record, got %d", count)
	}
}

func TestMemoryStorage(t *testing.T) {
	storage := NewMemoryStorage()
	defer storage.Close()

	storageUnderTest(t, storage)
}

func TestSQLiteStorage(t *testing.T) {
	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "usage.db")

	storage, err := NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("failed to open sqlite storage: %v", err)
	}
	defer storage.Close()

	storageUnderTest(t, storage)
}

func TestSQLiteStorageErrorField(t *testing.T) {
	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "usage.db")

	storage, err := NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("failed to open sqlite storage: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()
	rec := testRecord("r1", time.Now().UTC())
	rec.Status = "error"
	rec.Error = "upstream reset"

	if err := storage.Store(ctx, rec); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	got, err := storage.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(got) != 1 || got[0].Error != "upstream reset" {
		t.Errorf("expected error field round trip, got %+v", got)
	}
}
