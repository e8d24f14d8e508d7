package graph

import "sort"

// ArticulationPoint is a page whose removal splits its component.
type ArticulationPoint struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Title  string `json:"title"`
	Degree int    `json:"degree"`
}

// BridgeEdge is a connection whose removal splits its component.
type BridgeEdge struct {
	SourceID    string `json:"source_id"`
	TargetID    string `json:"target_id"`
	SourceTitle string `json:"source_title"`
	TargetTitle string `json:"target_title"`
}

// FragileConnection is a pair of categories whose articles share very few
// links.
type FragileConnection struct {
	RegionA    string `json:"region_a"`
	RegionB    string `json:"region_b"`
	CrossEdges int    `json:"cross_edges"`
}

// BridgeReport contains bridge analysis results
type BridgeReport struct {
	ArticulationPoints []ArticulationPoint `json:"articulation_points"`
	BridgeEdges        []BridgeEdge        `json:"bridge_edges"`
	FragileConnections []FragileConnection `json:"fragile_connections"`
	APCount            int                 `json:"ap_count"`
	BridgeCount        int                 `json:"bridge_count"`
}

// fragileLimit is the most cross-category links a pair may have and still
// count as fragile.
const fragileLimit = 2

// ComputeBridges finds articulation points, bridge edges and fragile
// connections between categories.
func ComputeBridges(snap *GraphSnapshot) *BridgeReport {
	r := &BridgeReport{}
	if len(snap.Nodes) == 0 {
		return r
	}

	g := newUndirected(snap)
	cuts, pairs := g.cutStructure()

	for i, isCut := range cuts {
		if !isCut {
			continue
		}
		node := snap.Nodes[g.ids[i]]
		r.ArticulationPoints = append(r.ArticulationPoints, ArticulationPoint{
			ID:     node.ID,
			Label:  node.Label,
			Title:  node.Title,
			Degree: len(g.neighbors[i]),
		})
	}
	for _, p := range pairs {
		src, dst := snap.Nodes[g.ids[p[0]]], snap.Nodes[g.ids[p[1]]]
		r.BridgeEdges = append(r.BridgeEdges, BridgeEdge{
			SourceID:    src.ID,
			TargetID:    dst.ID,
			SourceTitle: src.Title,
			TargetTitle: dst.Title,
		})
	}

	r.FragileConnections = fragileConnections(snap)
	r.APCount = len(r.ArticulationPoints)
	r.BridgeCount = len(r.BridgeEdges)
	return r
}

// fragileConnections counts LINKS_TO edges between articles of different
// categories and keeps the pairs with at most fragileLimit of them.
// Membership edges and unassigned pages are ignored.
func fragileConnections(snap *GraphSnapshot) []FragileConnection {
	type pair struct{ a, b string }
	counts := make(map[pair]int)
	for _, e := range snap.Edges {
		if e.EdgeType != EdgeLinksTo {
			continue
		}
		ra, rb := snap.Regions[e.Source], snap.Regions[e.Target]
		if ra == rb || ra == unassigned || rb == unassigned || ra == "" || rb == "" {
			continue
		}
		if ra > rb {
			ra, rb = rb, ra
		}
		counts[pair{ra, rb}]++
	}

	var out []FragileConnection
	for p, c := range counts {
		if c <= fragileLimit {
			out = append(out, FragileConnection{RegionA: p.a, RegionB: p.b, CrossEdges: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		x, y := out[i], out[j]
		if x.CrossEdges != y.CrossEdges {
			return x.CrossEdges < y.CrossEdges
		}
		if x.RegionA != y.RegionA {
			return x.RegionA < y.RegionA
		}
		return x.RegionB < y.RegionB
	})
	return out
}
