package importer

import "context"

// Node labels and relationship types written by the importer.
const (
	LabelArticle  = "Article"
	LabelCategory = "Category"

	RelCategorizedAs = "CATEGORIZED_AS"
	RelLinksTo       = "LINKS_TO"
)

// KeyProperty returns the natural-key property name for a label. Articles
// are keyed by "title", categories by "name".
func KeyProperty(label string) string {
	if label == LabelCategory {
		return "name"
	}
	return "title"
}

// NodeRef identifies a node by label and natural key.
type NodeRef struct {
	Label string
	Key   string
}

// NodeUpsert matches or creates the node and overwrites Props on it.
// Prop values are string, int64 or nil.
type NodeUpsert struct {
	NodeRef
	Props map[string]any
}

// EdgeUpsert matches or creates both endpoints and a property-less
// relationship of Type between them.
type EdgeUpsert struct {
	Type string
	From NodeRef
	To   NodeRef
}

// GraphWriter is the write side of a property-graph store. Each call is one
// atomic write; implementations must make repeated calls idempotent.
type GraphWriter interface {
	UpsertNode(ctx context.Context, n NodeUpsert) error
	UpsertEdge(ctx context.Context, e EdgeUpsert) error
	// ClearLabel detach-deletes every node of label and reports how many
	// were removed. An unknown label removes nothing and is not an error.
	ClearLabel(ctx context.Context, label string) (int64, error)
}
