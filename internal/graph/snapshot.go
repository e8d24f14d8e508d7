package graph

import "sort"

const unassigned = "unassigned"

// NodeInfo is a lightweight node representation decoupled from DB types
type NodeInfo struct {
	ID    string // "Label:key"
	Label string
	Title string
	// Touched is the wiki's last-touched time in Unix millis; 0 if unknown.
	Touched   int64
	UpdatedAt int64
	// HasPage is false for nodes that only exist as the target of an edge.
	HasPage bool
}

// EdgeInfo is a lightweight edge representation
type EdgeInfo struct {
	ID        int64
	Source    string
	Target    string
	EdgeType  string
	CreatedAt int64
}

// GraphSnapshot holds a graph with precomputed adjacency lists and region map
type GraphSnapshot struct {
	Nodes   map[string]*NodeInfo
	Edges   []EdgeInfo
	Adj     map[string][]string // undirected
	OutAdj  map[string][]string // directed: source -> targets
	InAdj   map[string][]string // directed: target -> sources
	Regions map[string]string   // node_id -> owning category
}

// NodeID is the snapshot identifier for a node.
func NodeID(label, key string) string {
	return label + ":" + key
}

// NewSnapshot builds a GraphSnapshot from raw nodes and edges
func NewSnapshot(nodes []*NodeInfo, edges []EdgeInfo) *GraphSnapshot {
	nodeMap := make(map[string]*NodeInfo, len(nodes))
	adj := make(map[string][]string)
	outAdj := make(map[string][]string)
	inAdj := make(map[string][]string)

	for _, n := range nodes {
		nodeMap[n.ID] = n
		adj[n.ID] = nil // ensure entry exists
		outAdj[n.ID] = nil
		inAdj[n.ID] = nil
	}

	var kept []EdgeInfo
	for _, e := range edges {
		if _, ok := nodeMap[e.Source]; !ok {
			continue
		}
		if _, ok := nodeMap[e.Target]; !ok {
			continue
		}
		kept = append(kept, e)
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
		outAdj[e.Source] = append(outAdj[e.Source], e.Target)
		inAdj[e.Target] = append(inAdj[e.Target], e.Source)
	}

	return &GraphSnapshot{
		Nodes:   nodeMap,
		Edges:   kept,
		Adj:     adj,
		OutAdj:  outAdj,
		InAdj:   inAdj,
		Regions: computeRegions(nodeMap, kept),
	}
}

// FilterToCategory returns a new snapshot with the category, its
// subcategories (transitively) and every article filed under any of them.
func (s *GraphSnapshot) FilterToCategory(categoryID string) *GraphSnapshot {
	if _, ok := s.Nodes[categoryID]; !ok {
		return NewSnapshot(nil, nil)
	}

	members := make(map[string][]string)
	for _, e := range s.Edges {
		if e.EdgeType == EdgeCategorizedAs {
			members[e.Target] = append(members[e.Target], e.Source)
		}
	}

	included := map[string]bool{categoryID: true}
	queue := []string{categoryID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, m := range members[current] {
			if included[m] {
				continue
			}
			included[m] = true
			if s.Nodes[m].Label == LabelCategory {
				queue = append(queue, m)
			}
		}
	}

	var filteredNodes []*NodeInfo
	for id := range included {
		filteredNodes = append(filteredNodes, s.Nodes[id])
	}
	var filteredEdges []EdgeInfo
	for _, e := range s.Edges {
		if included[e.Source] && included[e.Target] {
			filteredEdges = append(filteredEdges, e)
		}
	}
	return NewSnapshot(filteredNodes, filteredEdges)
}

// NodeIDs returns a sorted list of all node IDs (for deterministic output)
func (s *GraphSnapshot) NodeIDs() []string {
	ids := make([]string, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// computeRegions assigns each category to itself and each article to the
// alphabetically first category it is filed under.
func computeRegions(nodes map[string]*NodeInfo, edges []EdgeInfo) map[string]string {
	regions := make(map[string]string, len(nodes))
	for id, node := range nodes {
		if node.Label == LabelCategory {
			regions[id] = id
		}
	}
	for _, e := range edges {
		if e.EdgeType != EdgeCategorizedAs || nodes[e.Source].Label != LabelArticle {
			continue
		}
		if cur, ok := regions[e.Source]; !ok || e.Target < cur {
			regions[e.Source] = e.Target
		}
	}
	for id := range nodes {
		if _, ok := regions[id]; !ok {
			regions[id] = unassigned
		}
	}
	return regions
}
