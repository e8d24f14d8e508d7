package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// scanNode scans a row into a Node. The row must have all 6 columns in standard order.
func scanNode(scanner interface{ Scan(dest ...any) error }) (Node, error) {
	var n Node
	var props string
	err := scanner.Scan(&n.ID, &n.Label, &n.Key, &props, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return n, err
	}
	if err := json.Unmarshal([]byte(props), &n.Props); err != nil {
		return n, fmt.Errorf("decoding properties of node %d: %w", n.ID, err)
	}
	return n, nil
}

func (d *DB) queryNodes(ctx context.Context, query string, args ...any) ([]Node, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// AllNodes returns all nodes ordered by label and key
func (d *DB) AllNodes(ctx context.Context) ([]Node, error) {
	return d.queryNodes(ctx, `
		SELECT id, label, key, props, created_at, updated_at
		FROM nodes ORDER BY label, key
	`)
}

// NodesByLabel returns all nodes carrying label, ordered by key
func (d *DB) NodesByLabel(ctx context.Context, label string) ([]Node, error) {
	return d.queryNodes(ctx, `
		SELECT id, label, key, props, created_at, updated_at
		FROM nodes WHERE label = ? ORDER BY key
	`, label)
}

// GetNode returns a single node by label and natural key, or nil if not found
func (d *DB) GetNode(ctx context.Context, label, key string) (*Node, error) {
	row := d.conn.QueryRowContext(ctx, `
		SELECT id, label, key, props, created_at, updated_at
		FROM nodes WHERE label = ? AND key = ?
	`, label, key)

	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// GetNodeByID returns a single node by row id, or nil if not found
func (d *DB) GetNodeByID(ctx context.Context, id int64) (*Node, error) {
	row := d.conn.QueryRowContext(ctx, `
		SELECT id, label, key, props, created_at, updated_at
		FROM nodes WHERE id = ?
	`, id)

	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CountNodes returns the number of nodes with label
func (d *DB) CountNodes(ctx context.Context, label string) (int, error) {
	var count int
	err := d.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes WHERE label = ?", label).Scan(&count)
	return count, err
}
