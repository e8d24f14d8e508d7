package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"methodswiki/wikigraph/internal/importer"
)

var _ importer.GraphWriter = (*DB)(nil)

// UpsertNode inserts the node or patches its properties. The patch follows
// JSON merge-patch rules, so a nil property removes the key just as
// SET n.prop = null does in Cypher.
func (d *DB) UpsertNode(ctx context.Context, n importer.NodeUpsert) error {
	patch, err := json.Marshal(n.Props)
	if err != nil {
		return fmt.Errorf("encoding properties of %s %q: %w", n.Label, n.Key, err)
	}
	if n.Props == nil {
		patch = []byte("{}")
	}
	now := time.Now().UnixMilli()

	_, err = d.conn.ExecContext(ctx, `
		INSERT INTO nodes (label, key, props, created_at, updated_at)
		VALUES (?1, ?2, json_patch('{}', ?3), ?4, ?4)
		ON CONFLICT (label, key) DO UPDATE
		SET props = json_patch(nodes.props, ?3), updated_at = ?4
	`, n.Label, n.Key, string(patch), now)
	if err != nil {
		return fmt.Errorf("upserting %s %q: %w", n.Label, n.Key, err)
	}
	return nil
}

// UpsertEdge creates missing endpoints and the edge in one transaction.
func (d *DB) UpsertEdge(ctx context.Context, e importer.EdgeUpsert) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	sourceID, err := ensureNode(ctx, tx, e.From, now)
	if err != nil {
		return err
	}
	targetID, err := ensureNode(ctx, tx, e.To, now)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO edges (type, source_id, target_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (type, source_id, target_id) DO NOTHING
	`, e.Type, sourceID, targetID, now)
	if err != nil {
		return fmt.Errorf("inserting %s edge: %w", e.Type, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing edge: %w", err)
	}
	return nil
}

// ClearLabel deletes all nodes with label and every edge touching them.
func (d *DB) ClearLabel(ctx context.Context, label string) (int64, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM edges
		WHERE source_id IN (SELECT id FROM nodes WHERE label = ?1)
		   OR target_id IN (SELECT id FROM nodes WHERE label = ?1)
	`, label)
	if err != nil {
		return 0, fmt.Errorf("detaching %s nodes: %w", label, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE label = ?`, label)
	if err != nil {
		return 0, fmt.Errorf("deleting %s nodes: %w", label, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing delete: %w", err)
	}
	return n, nil
}

// ensureNode returns the id of the node, creating it without properties
// when it does not exist yet.
func ensureNode(ctx context.Context, tx *sql.Tx, ref importer.NodeRef, now int64) (int64, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO nodes (label, key, props, created_at, updated_at)
		VALUES (?, ?, '{}', ?, ?)
		ON CONFLICT (label, key) DO NOTHING
	`, ref.Label, ref.Key, now, now)
	if err != nil {
		return 0, fmt.Errorf("merging %s %q: %w", ref.Label, ref.Key, err)
	}

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM nodes WHERE label = ? AND key = ?`, ref.Label, ref.Key).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("resolving %s %q: %w", ref.Label, ref.Key, err)
	}
	return id, nil
}
