package catalog

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_CRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	entry := &Entry{
		ID:         "ds-1",
		Name:       "people.csv",
		SizeBytes:  1024,
		Rows:       100,
		Columns:    []string{"source", "target"},
		Directed:   true,
		NodeCount:  42,
		EdgeCount:  99,
		UploadedAt: time.Now(),
	}

	if err := s.Put(ctx, entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "ds-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "people.csv" || got.NodeCount != 42 {
		t.Errorf("Unexpected entry: %+v", got)
	}

	// Stored entries are isolated from caller mutation
	entry.Name = "changed"
	got, _ = s.Get(ctx, "ds-1")
	if got.Name != "people.csv" {
		t.Error("Expected stored entry unaffected by caller mutation")
	}

	// Upsert
	entry.ID = "ds-1"
	entry.Name = "renamed.csv"
	s.Put(ctx, entry)
	got, _ = s.Get(ctx, "ds-1")
	if got.Name != "renamed.csv" {
		t.Errorf("Expected upsert, got %q", got.Name)
	}

	if err := s.Delete(ctx, "ds-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "ds-1"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "ds-1"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	s.Put(ctx, &Entry{ID: "old", UploadedAt: base})
	s.Put(ctx, &Entry{ID: "new", UploadedAt: base.Add(time.Minute)})

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "new" {
		t.Errorf("Expected newest first, got %+v", entries)
	}
}
