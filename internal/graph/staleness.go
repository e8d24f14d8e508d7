package graph

import (
	"sort"
	"time"
)

const dayMs = 86_400_000

// StaleNode is a page that has not been touched in a while but is linked
// from recently edited pages.
type StaleNode struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DaysSinceUpdate int64  `json:"days_since_update"`
	RecentRefCount  int    `json:"recent_reference_count"`
}

// MissingPage is a link target for which no page was ever imported.
type MissingPage struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	LinkedFrom int    `json:"linked_from"`
}

// StalenessReport contains staleness analysis results
type StalenessReport struct {
	StaleNodes       []StaleNode   `json:"stale_nodes"`
	MissingPages     []MissingPage `json:"missing_pages"`
	StaleNodeCount   int           `json:"stale_node_count"`
	MissingPageCount int           `json:"missing_page_count"`
}

// ComputeStaleness finds stale pages and link targets without a page.
// Pages with an unknown touched time are never reported as stale.
func ComputeStaleness(snap *GraphSnapshot, staleDays int64) *StalenessReport {
	return computeStaleness(snap, staleDays, time.Now().UnixMilli())
}

func computeStaleness(snap *GraphSnapshot, staleDays, nowMs int64) *StalenessReport {
	staleThresholdMs := staleDays * dayMs
	recentWindowMs := int64(7 * dayMs)

	recentRefs := make(map[string]int)
	linkRefs := make(map[string]int)
	for _, e := range snap.Edges {
		if e.EdgeType != EdgeLinksTo || e.Source == e.Target {
			continue
		}
		linkRefs[e.Target]++
		src := snap.Nodes[e.Source]
		if src.Touched > 0 && nowMs-src.Touched < recentWindowMs {
			recentRefs[e.Target]++
		}
	}

	var staleNodes []StaleNode
	var missing []MissingPage
	for _, id := range snap.NodeIDs() {
		node := snap.Nodes[id]
		if !node.HasPage {
			if n := linkRefs[id]; n > 0 {
				missing = append(missing, MissingPage{ID: id, Title: node.Title, LinkedFrom: n})
			}
			continue
		}
		if node.Touched == 0 {
			continue
		}
		ageMs := nowMs - node.Touched
		if ageMs <= staleThresholdMs {
			continue
		}
		if n := recentRefs[id]; n > 0 {
			staleNodes = append(staleNodes, StaleNode{
				ID:              id,
				Title:           node.Title,
				DaysSinceUpdate: ageMs / dayMs,
				RecentRefCount:  n,
			})
		}
	}
	sort.SliceStable(staleNodes, func(i, j int) bool {
		return staleNodes[i].RecentRefCount > staleNodes[j].RecentRefCount
	})
	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].LinkedFrom > missing[j].LinkedFrom
	})

	return &StalenessReport{
		StaleNodes:       staleNodes,
		MissingPages:     missing,
		StaleNodeCount:   len(staleNodes),
		MissingPageCount: len(missing),
	}
}
