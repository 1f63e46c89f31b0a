// Package catalog records dataset metadata so analysis sessions can be
// audited and revisited after the in-memory dataset itself has expired.
package catalog

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("catalog entry not found")

// Entry is the durable record of one uploaded dataset.
type Entry struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	SizeBytes    int64             `json:"size_bytes"`
	Rows         int               `json:"rows"`
	Columns      []string          `json:"columns,omitempty"`
	Directed     bool              `json:"directed"`
	NodeCount    int               `json:"node_count"`
	EdgeCount    int               `json:"edge_count"`
	SnapshotKey  string            `json:"snapshot_key,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	UploadedAt   time.Time         `json:"uploaded_at"`
	LastAnalyzed time.Time         `json:"last_analyzed"`
}

// Store persists catalog entries.
type Store interface {
	Put(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
