// Package pgstore keeps the wiki graph in PostgreSQL, using the same
// nodes/edges layout as the SQLite store with jsonb properties.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"methodswiki/wikigraph/internal/importer"
	"methodswiki/wikigraph/internal/logger"
)

var _ importer.GraphWriter = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
    id         BIGSERIAL PRIMARY KEY,
    label      TEXT NOT NULL,
    key        TEXT NOT NULL,
    props      JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (label, key)
);

CREATE TABLE IF NOT EXISTS edges (
    id         BIGSERIAL PRIMARY KEY,
    type       TEXT NOT NULL,
    source_id  BIGINT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
    target_id  BIGINT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (type, source_id, target_id)
);

CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
`

// Store is a GraphWriter backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to databaseURL and pings the server.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	logger.Debug("Connected to postgres")
	return &Store{pool: pool}, nil
}

// Close releases every pooled connection.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// UpsertNode inserts the node or merges props into the existing one.
// A nil property value removes the key.
func (s *Store) UpsertNode(ctx context.Context, n importer.NodeUpsert) error {
	props, err := encodeProps(n.Props)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO nodes (label, key, props)
		VALUES ($1, $2, jsonb_strip_nulls($3::jsonb))
		ON CONFLICT (label, key) DO UPDATE SET
			props = jsonb_strip_nulls(nodes.props || $3::jsonb),
			updated_at = now()
	`, n.Label, n.Key, props)
	return err
}

// UpsertEdge creates missing endpoints and the edge in one transaction.
func (s *Store) UpsertEdge(ctx context.Context, e importer.EdgeUpsert) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	from, err := ensureNode(ctx, tx, e.From)
	if err != nil {
		return err
	}
	to, err := ensureNode(ctx, tx, e.To)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO edges (type, source_id, target_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (type, source_id, target_id) DO NOTHING
	`, e.Type, from, to)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ClearLabel deletes every node with label and all edges touching them.
func (s *Store) ClearLabel(ctx context.Context, label string) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM edges
		WHERE source_id IN (SELECT id FROM nodes WHERE label = $1)
		   OR target_id IN (SELECT id FROM nodes WHERE label = $1)
	`, label)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM nodes WHERE label = $1", label)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountNodes returns the number of nodes with label.
func (s *Store) CountNodes(ctx context.Context, label string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM nodes WHERE label = $1", label).Scan(&n)
	return n, err
}

func ensureNode(ctx context.Context, tx pgx.Tx, ref importer.NodeRef) (int64, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO nodes (label, key) VALUES ($1, $2)
		ON CONFLICT (label, key) DO NOTHING
	`, ref.Label, ref.Key)
	if err != nil {
		return 0, err
	}
	var id int64
	err = tx.QueryRow(ctx, "SELECT id FROM nodes WHERE label = $1 AND key = $2", ref.Label, ref.Key).Scan(&id)
	return id, err
}

func encodeProps(props map[string]any) (string, error) {
	if len(props) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("encoding props: %w", err)
	}
	return string(b), nil
}
