package db

// Node represents a row in the nodes table
type Node struct {
	ID        int64          `json:"id"`
	Label     string         `json:"label"` // "Article", "Category"
	Key       string         `json:"key"`   // natural key: title or name
	Props     map[string]any `json:"props"`
	CreatedAt int64          `json:"created_at"` // Unix millis
	UpdatedAt int64          `json:"updated_at"` // Unix millis
}

// Edge represents a row in the edges table, joined with its endpoint keys
type Edge struct {
	ID          int64  `json:"id"`
	EdgeType    string `json:"edge_type"` // "CATEGORIZED_AS", "LINKS_TO"
	SourceID    int64  `json:"source_id"`
	TargetID    int64  `json:"target_id"`
	SourceLabel string `json:"source_label"`
	SourceKey   string `json:"source_key"`
	TargetLabel string `json:"target_label"`
	TargetKey   string `json:"target_key"`
	CreatedAt   int64  `json:"created_at"` // Unix millis
}

// StringProp returns a string property, or "" when absent or not a string.
func (n *Node) StringProp(name string) string {
	s, _ := n.Props[name].(string)
	return s
}

// IntProp returns an integer property. JSON numbers decode as float64.
func (n *Node) IntProp(name string) (int64, bool) {
	switch v := n.Props[name].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}
