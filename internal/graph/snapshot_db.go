package graph

import (
	"context"
	"time"

	"methodswiki/wikigraph/internal/db"
	"methodswiki/wikigraph/internal/importer"
)

// Labels and edge types as written by the importer.
const (
	LabelArticle      = importer.LabelArticle
	LabelCategory     = importer.LabelCategory
	EdgeCategorizedAs = importer.RelCategorizedAs
	EdgeLinksTo       = importer.RelLinksTo
)

// SnapshotFromDB loads a GraphSnapshot from the database
func SnapshotFromDB(ctx context.Context, d *db.DB) (*GraphSnapshot, error) {
	dbNodes, err := d.AllNodes(ctx)
	if err != nil {
		return nil, err
	}
	dbEdges, err := d.AllEdges(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]*NodeInfo, 0, len(dbNodes))
	for i := range dbNodes {
		n := &dbNodes[i]
		_, hasPage := n.IntProp("pageid")
		nodes = append(nodes, &NodeInfo{
			ID:        NodeID(n.Label, n.Key),
			Label:     n.Label,
			Title:     n.Key,
			Touched:   parseTouched(n.StringProp("touched")),
			UpdatedAt: n.UpdatedAt,
			HasPage:   hasPage,
		})
	}

	edges := make([]EdgeInfo, 0, len(dbEdges))
	for _, e := range dbEdges {
		edges = append(edges, EdgeInfo{
			ID:        e.ID,
			Source:    NodeID(e.SourceLabel, e.SourceKey),
			Target:    NodeID(e.TargetLabel, e.TargetKey),
			EdgeType:  e.EdgeType,
			CreatedAt: e.CreatedAt,
		})
	}

	return NewSnapshot(nodes, edges), nil
}

// parseTouched reads MediaWiki's ISO 8601 "touched" timestamp.
func parseTouched(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
