package graph

import "sort"

// HubNode is a page with many connections
type HubNode struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Title     string `json:"title"`
	Degree    int    `json:"degree"`
	InDegree  int    `json:"in_degree"`
	OutDegree int    `json:"out_degree"`
}

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopologyReport contains topology analysis results
type TopologyReport struct {
	TotalNodes        int            `json:"total_nodes"`
	TotalEdges        int            `json:"total_edges"`
	Articles          int            `json:"articles"`
	Categories        int            `json:"categories"`
	Uncategorized     []string       `json:"uncategorized"`
	NumComponents     int            `json:"num_components"`
	LargestComponent  int            `json:"largest_component"`
	SmallestComponent int            `json:"smallest_component"`
	OrphanCount       int            `json:"orphan_count"`
	OrphanIDs         []string       `json:"orphan_ids"`
	DegreeHistogram   []DegreeBucket `json:"degree_histogram"`
	Hubs              []HubNode      `json:"hubs"`
}

// ComputeTopology reports components, orphans, the degree distribution,
// hubs above hubThreshold, and imported articles filed under no category.
// Lists are cut to topN entries.
func ComputeTopology(snap *GraphSnapshot, hubThreshold, topN int) *TopologyReport {
	r := &TopologyReport{
		TotalNodes:      len(snap.Nodes),
		TotalEdges:      len(snap.Edges),
		DegreeHistogram: defaultHistogram(),
	}
	if r.TotalNodes == 0 {
		return r
	}

	sizes := newUndirected(snap).componentSizes()
	r.NumComponents = len(sizes)
	r.LargestComponent = sizes[0]
	r.SmallestComponent = sizes[len(sizes)-1]

	for _, id := range snap.NodeIDs() {
		node := snap.Nodes[id]
		degree := len(snap.Adj[id])
		r.DegreeHistogram[degreeBucket(degree)].Count++

		if degree == 0 {
			r.OrphanCount++
			r.OrphanIDs = append(r.OrphanIDs, id)
		}
		if degree > hubThreshold {
			r.Hubs = append(r.Hubs, HubNode{
				ID:        id,
				Label:     node.Label,
				Title:     node.Title,
				Degree:    degree,
				InDegree:  len(snap.InAdj[id]),
				OutDegree: len(snap.OutAdj[id]),
			})
		}

		switch node.Label {
		case LabelArticle:
			r.Articles++
			if node.HasPage && snap.Regions[id] == unassigned {
				r.Uncategorized = append(r.Uncategorized, id)
			}
		case LabelCategory:
			r.Categories++
		}
	}

	sort.SliceStable(r.Hubs, func(i, j int) bool { return r.Hubs[i].Degree > r.Hubs[j].Degree })
	r.OrphanIDs = head(r.OrphanIDs, topN)
	r.Uncategorized = head(r.Uncategorized, topN)
	r.Hubs = head(r.Hubs, topN)
	return r
}

func head[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// degreeBounds are the inclusive upper bounds of the log-scale buckets; the
// last bucket is open.
var degreeBounds = []int{0, 1, 3, 7, 15, 31}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

func degreeBucket(degree int) int {
	for i, bound := range degreeBounds {
		if degree <= bound {
			return i
		}
	}
	return len(degreeBounds)
}
