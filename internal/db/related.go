package db

import (
	"container/heap"
	"context"
	"fmt"
	"math"
)

// RelatedNode represents a node reached by Dijkstra traversal from a source.
type RelatedNode struct {
	Rank      int       `json:"rank"`
	NodeID    int64     `json:"nodeId"`
	Label     string    `json:"label"`
	Key       string    `json:"key"`
	Distance  float64   `json:"distance"`
	Relevance float64   `json:"relevance"`
	Hops      int       `json:"hops"`
	Path      []PathHop `json:"path"`
}

// PathHop represents one hop in a path from source to destination.
type PathHop struct {
	EdgeID   int64  `json:"edgeId"`
	EdgeType string `json:"edgeType"`
	NodeID   int64  `json:"nodeId"`
	Key      string `json:"key"`
}

// RelatedConfig holds parameters for the Dijkstra expansion.
type RelatedConfig struct {
	Budget    int
	MaxHops   int
	MaxCost   float64
	EdgeTypes []string // allowlist; nil means all
	// Labels restricts which nodes are reported; traversal still passes
	// through the others. Nil means all.
	Labels []string
}

// DefaultRelatedConfig returns sensible defaults matching the CLI.
func DefaultRelatedConfig() *RelatedConfig {
	return &RelatedConfig{
		Budget:  20,
		MaxHops: 6,
		MaxCost: 3.0,
	}
}

// EdgeTypePriority returns the traversal priority for an edge type.
// Higher priority = lower traversal cost.
func EdgeTypePriority(edgeType string) float64 {
	switch edgeType {
	case "LINKS_TO":
		return 0.7
	default:
		return 0.3
	}
}

// IsStructuralEdge returns true for edge types that represent the category
// hierarchy rather than an explicit link.
func IsStructuralEdge(edgeType string) bool {
	return edgeType == "CATEGORIZED_AS"
}

// edgeCost is the traversal cost of one edge. Category membership gets a
// floor so that a large category does not flood the budget.
func edgeCost(edgeType string) float64 {
	const confidence = 0.5
	cost := math.Max((1.0-confidence)*(1.0-0.5*EdgeTypePriority(edgeType)), 0.001)
	if IsStructuralEdge(edgeType) {
		cost = math.Max(cost, 0.4)
	}
	return cost
}

type prevEntry struct {
	prevNodeID int64
	edgeID     int64
	edgeType   string
}

type dijkstraEntry struct {
	distance float64
	nodeID   int64
	hops     int
}

// dijkstraHeap implements container/heap.Interface as a min-heap.
// Ties broken by nodeID for deterministic output.
type dijkstraHeap []dijkstraEntry

func (h dijkstraHeap) Len() int { return len(h) }
func (h dijkstraHeap) Less(i, j int) bool {
	if h[i].distance != h[j].distance {
		return h[i].distance < h[j].distance
	}
	return h[i].nodeID < h[j].nodeID
}
func (h dijkstraHeap) Swap(i, j int)  { h[i], h[j] = h[j], h[i] }
func (h *dijkstraHeap) Push(x any)    { *h = append(*h, x.(dijkstraEntry)) }
func (h *dijkstraHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Related expands outward from the node (label, key), following edges in
// both directions, and returns up to config.Budget nodes by distance.
func (d *DB) Related(ctx context.Context, label, key string, config *RelatedConfig) ([]RelatedNode, error) {
	if config == nil {
		config = DefaultRelatedConfig()
	}
	budget := config.Budget
	if budget <= 0 {
		budget = 20
	}
	maxHops := config.MaxHops
	if maxHops <= 0 {
		maxHops = 6
	}
	maxCost := config.MaxCost
	if maxCost <= 0 {
		maxCost = 3.0
	}

	source, err := d.GetNode(ctx, label, key)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("node not found: %s %q", label, key)
	}

	allowSet := toSet(config.EdgeTypes)
	labelSet := toSet(config.Labels)

	dist := map[int64]float64{source.ID: 0.0}
	prev := map[int64]prevEntry{}
	visited := map[int64]bool{}
	keys := map[int64]string{source.ID: source.Key}

	h := &dijkstraHeap{{distance: 0.0, nodeID: source.ID, hops: 0}}
	heap.Init(h)

	var results []RelatedNode

	for h.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry := heap.Pop(h).(dijkstraEntry)
		current := entry.nodeID

		if visited[current] {
			continue
		}
		visited[current] = true

		if current != source.ID {
			node, err := d.GetNodeByID(ctx, current)
			if err != nil {
				return nil, err
			}
			if node != nil && (labelSet == nil || labelSet[node.Label]) {
				results = append(results, RelatedNode{
					NodeID:    current,
					Label:     node.Label,
					Key:       node.Key,
					Distance:  entry.distance,
					Relevance: 1.0 / (1.0 + entry.distance),
					Hops:      entry.hops,
					Path:      reconstructPath(prev, keys, source.ID, current),
				})
				if len(results) >= budget {
					break
				}
			}
		}

		if entry.hops >= maxHops {
			continue
		}

		edges, err := d.GetEdgesForNode(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("loading edges of node %d: %w", current, err)
		}

		for _, edge := range edges {
			if allowSet != nil && !allowSet[edge.EdgeType] {
				continue
			}

			// Bidirectional traversal
			neighbor, neighborKey := edge.TargetID, edge.TargetKey
			if edge.SourceID != current {
				neighbor, neighborKey = edge.SourceID, edge.SourceKey
			}
			if visited[neighbor] {
				continue
			}

			newDist := entry.distance + edgeCost(edge.EdgeType)
			if newDist > maxCost {
				continue
			}

			prevDist, exists := dist[neighbor]
			if !exists || newDist < prevDist {
				dist[neighbor] = newDist
				keys[neighbor] = neighborKey
				prev[neighbor] = prevEntry{
					prevNodeID: current,
					edgeID:     edge.ID,
					edgeType:   edge.EdgeType,
				}
				heap.Push(h, dijkstraEntry{
					distance: newDist,
					nodeID:   neighbor,
					hops:     entry.hops + 1,
				})
			}
		}
	}

	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// reconstructPath walks the prev map backwards from target to source.
func reconstructPath(prev map[int64]prevEntry, keys map[int64]string, source, target int64) []PathHop {
	var path []PathHop
	current := target
	for current != source {
		entry, ok := prev[current]
		if !ok {
			break
		}
		path = append(path, PathHop{
			EdgeID:   entry.edgeID,
			EdgeType: entry.edgeType,
			NodeID:   current,
			Key:      keys[current],
		})
		current = entry.prevNodeID
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func toSet(items []string) map[string]bool {
	if items == nil {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
