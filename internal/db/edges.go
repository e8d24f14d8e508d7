package db

import "context"

const edgeColumns = `
	SELECT e.id, e.type, e.source_id, e.target_id,
	       s.label, s.key, t.label, t.key, e.created_at
	FROM edges e
	JOIN nodes s ON s.id = e.source_id
	JOIN nodes t ON t.id = e.target_id
`

// scanEdge scans a row into an Edge. The row must have all 9 columns in standard order.
func scanEdge(scanner interface{ Scan(dest ...any) error }) (Edge, error) {
	var e Edge
	err := scanner.Scan(
		&e.ID, &e.EdgeType, &e.SourceID, &e.TargetID,
		&e.SourceLabel, &e.SourceKey, &e.TargetLabel, &e.TargetKey, &e.CreatedAt,
	)
	return e, err
}

func (d *DB) queryEdges(ctx context.Context, query string, args ...any) ([]Edge, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// AllEdges returns all edges
func (d *DB) AllEdges(ctx context.Context) ([]Edge, error) {
	return d.queryEdges(ctx, edgeColumns+` ORDER BY e.id`)
}

// EdgesFrom returns the outgoing edges of the node identified by label and key.
func (d *DB) EdgesFrom(ctx context.Context, label, key string) ([]Edge, error) {
	return d.queryEdges(ctx, edgeColumns+`
		WHERE s.label = ? AND s.key = ?
		ORDER BY e.type, t.key
	`, label, key)
}

// GetEdgesForNode returns all edges where the given node is source OR target.
func (d *DB) GetEdgesForNode(ctx context.Context, nodeID int64) ([]Edge, error) {
	return d.queryEdges(ctx, edgeColumns+`
		WHERE e.source_id = ?1 OR e.target_id = ?1
	`, nodeID)
}

// CountEdges returns the number of edges of edgeType
func (d *DB) CountEdges(ctx context.Context, edgeType string) (int, error) {
	var count int
	err := d.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM edges WHERE type = ?", edgeType).Scan(&count)
	return count, err
}
