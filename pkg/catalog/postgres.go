package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists catalog entries in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a PostgreSQL-backed catalog and runs migrations.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

func (s *PGStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		size_bytes BIGINT NOT NULL,
		rows INTEGER NOT NULL,
		columns JSONB,
		directed BOOLEAN NOT NULL DEFAULT FALSE,
		node_count INTEGER NOT NULL DEFAULT 0,
		edge_count INTEGER NOT NULL DEFAULT 0,
		snapshot_key TEXT,
		labels JSONB,
		uploaded_at TIMESTAMP NOT NULL,
		last_analyzed TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_datasets_name ON datasets(name);
	CREATE INDEX IF NOT EXISTS idx_datasets_uploaded_at ON datasets(uploaded_at);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Ping checks database connectivity.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PGStore) Put(ctx context.Context, entry *Entry) error {
	columnsJSON, err := json.Marshal(entry.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal columns: %w", err)
	}
	labelsJSON, err := json.Marshal(entry.Labels)
	if err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}

	query := `
		INSERT INTO datasets (id, name, size_bytes, rows, columns, directed, node_count, edge_count, snapshot_key, labels, uploaded_at, last_analyzed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
		SET name = $2, size_bytes = $3, rows = $4, columns = $5, directed = $6,
		    node_count = $7, edge_count = $8, snapshot_key = $9, labels = $10, last_analyzed = $12
	`

	_, err = s.pool.Exec(ctx, query,
		entry.ID,
		entry.Name,
		entry.SizeBytes,
		entry.Rows,
		columnsJSON,
		entry.Directed,
		entry.NodeCount,
		entry.EdgeCount,
		entry.SnapshotKey,
		labelsJSON,
		entry.UploadedAt,
		entry.LastAnalyzed,
	)
	if err != nil {
		return fmt.Errorf("failed to store catalog entry: %w", err)
	}

	return nil
}

func (s *PGStore) Get(ctx context.Context, id string) (*Entry, error) {
	query := `
		SELECT id, name, size_bytes, rows, columns, directed, node_count, edge_count, snapshot_key, labels, uploaded_at, last_analyzed
		FROM datasets
		WHERE id = $1
	`

	entry, err := scanEntry(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog entry: %w", err)
	}

	return entry, nil
}

func (s *PGStore) List(ctx context.Context) ([]*Entry, error) {
	query := `
		SELECT id, name, size_bytes, rows, columns, directed, node_count, edge_count, snapshot_key, labels, uploaded_at, last_analyzed
		FROM datasets
		ORDER BY uploaded_at DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog entries: %w", err)
	}

	return entries, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete catalog entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	entry := &Entry{}
	var columnsJSON, labelsJSON []byte

	err := row.Scan(
		&entry.ID,
		&entry.Name,
		&entry.SizeBytes,
		&entry.Rows,
		&columnsJSON,
		&entry.Directed,
		&entry.NodeCount,
		&entry.EdgeCount,
		&entry.SnapshotKey,
		&labelsJSON,
		&entry.UploadedAt,
		&entry.LastAnalyzed,
	)
	if err != nil {
		return nil, err
	}

	if len(columnsJSON) > 0 {
		if err := json.Unmarshal(columnsJSON, &entry.Columns); err != nil {
			return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
		}
	}
	if len(labelsJSON) > 0 {
		if err := json.Unmarshal(labelsJSON, &entry.Labels); err != nil {
			return nil, fmt.Errorf("failed to unmarshal labels: %w", err)
		}
	}

	return entry, nil
}
