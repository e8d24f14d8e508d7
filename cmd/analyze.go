package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"methodswiki/wikigraph/internal/graph"
)

var (
	analyzeJSON     bool
	analyzeCategory string
	analyzeConfig   = graph.DefaultConfig()
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report topology, staleness, red links, fragility and a health score for the stored graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		snap, err := graph.SnapshotFromDB(cmd.Context(), d)
		if err != nil {
			return fmt.Errorf("loading graph: %w", err)
		}
		if analyzeCategory != "" {
			snap = snap.FilterToCategory(graph.NodeID(graph.LabelCategory, analyzeCategory))
			if len(snap.Nodes) == 0 {
				return fmt.Errorf("category not found: %s", analyzeCategory)
			}
		}

		report := graph.Analyze(snap, analyzeConfig)
		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printHumanReadable(report, snap)
		return nil
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	f.StringVar(&analyzeCategory, "category", "", "Only analyze this category, its subcategories and their articles")
	f.IntVar(&analyzeConfig.TopN, "top-n", analyzeConfig.TopN, "Entries kept per list")
	f.Int64Var(&analyzeConfig.StaleDays, "stale-days", analyzeConfig.StaleDays, "Days since last touched before a page counts as stale")
	f.IntVar(&analyzeConfig.HubThreshold, "hub-threshold", analyzeConfig.HubThreshold, "Degree above which a page is a hub")
	rootCmd.AddCommand(analyzeCmd)
}

// listLimit caps the entries printed per list in the human-readable report.
const listLimit = 10

func printHumanReadable(report *graph.AnalysisReport, snap *graph.GraphSnapshot) {
	printHealth(report)
	printTopology(report.Topology, snap)
	printStaleness(report.Staleness)
	printFragility(report.Bridges, snap)
	fmt.Println()
}

func section(name string) {
	fmt.Printf("\n  %s\n", name)
	fmt.Println("  " + strings.Repeat("─", 40))
}

// printList prints up to limit lines and a trailer for the rest.
func printList(n, limit int, line func(i int) string) {
	for i := 0; i < n && i < limit; i++ {
		fmt.Printf("    %s\n", line(i))
	}
	if n > limit {
		fmt.Printf("    ... and %d more\n", n-limit)
	}
}

func titleOf(snap *graph.GraphSnapshot, id string) string {
	if n := snap.Nodes[id]; n != nil {
		return n.Title
	}
	return id
}

func printHealth(report *graph.AnalysisReport) {
	const width = 20
	filled := min(int(report.HealthScore*width), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	b := report.HealthBreakdown
	fmt.Printf("\n  Graph Health: %.0f%%  [%s]\n", report.HealthScore*100, bar)
	fmt.Printf("  connectivity=%.2f components=%.2f staleness=%.2f fragility=%.2f coverage=%.2f\n",
		b.Connectivity, b.Components, b.Staleness, b.Fragility, b.Coverage)
}

func printTopology(t *graph.TopologyReport, snap *graph.GraphSnapshot) {
	section("TOPOLOGY")
	fmt.Printf("  %d articles, %d categories, %d edges in %d component(s) (largest %d, smallest %d)\n",
		t.Articles, t.Categories, t.TotalEdges, t.NumComponents, t.LargestComponent, t.SmallestComponent)

	if t.OrphanCount > 0 {
		fmt.Printf("  Orphans (no links, no categories): %d\n", t.OrphanCount)
		printList(len(t.OrphanIDs), 5, func(i int) string {
			return truncTitle(titleOf(snap, t.OrphanIDs[i]), 50)
		})
	}
	if len(t.Uncategorized) > 0 {
		fmt.Printf("  Uncategorized articles: %d\n", len(t.Uncategorized))
		printList(len(t.Uncategorized), 5, func(i int) string {
			return truncTitle(titleOf(snap, t.Uncategorized[i]), 50)
		})
	}

	fmt.Println("\n  Degree distribution:")
	for _, b := range t.DegreeHistogram {
		if b.Count == 0 {
			continue
		}
		fmt.Printf("    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", int(math.Log2(float64(b.Count)))+2))
	}

	if len(t.Hubs) > 0 {
		fmt.Println("\n  Hubs:")
		for _, h := range t.Hubs {
			fmt.Printf("    %-8s %4d links (in=%d, out=%d)  %s\n",
				h.Label, h.Degree, h.InDegree, h.OutDegree, truncTitle(h.Title, 40))
		}
	}
}

func printStaleness(s *graph.StalenessReport) {
	if s.StaleNodeCount == 0 && s.MissingPageCount == 0 {
		return
	}
	section("STALENESS")
	if s.StaleNodeCount > 0 {
		fmt.Printf("  %d stale pages linked from recently edited pages:\n", s.StaleNodeCount)
		printList(len(s.StaleNodes), listLimit, func(i int) string {
			n := s.StaleNodes[i]
			return fmt.Sprintf("%4dd old, %d recent refs  %s", n.DaysSinceUpdate, n.RecentRefCount, truncTitle(n.Title, 40))
		})
	}
	if s.MissingPageCount > 0 {
		fmt.Printf("  %d red links (linked but never imported):\n", s.MissingPageCount)
		printList(len(s.MissingPages), listLimit, func(i int) string {
			m := s.MissingPages[i]
			return fmt.Sprintf("%s (linked from %d)", truncTitle(m.Title, 40), m.LinkedFrom)
		})
	}
}

func printFragility(br *graph.BridgeReport, snap *graph.GraphSnapshot) {
	if br.APCount == 0 && br.BridgeCount == 0 && len(br.FragileConnections) == 0 {
		return
	}
	section("STRUCTURAL FRAGILITY")
	if br.APCount > 0 {
		fmt.Printf("  %d articulation points (removal splits a component):\n", br.APCount)
		printList(len(br.ArticulationPoints), listLimit, func(i int) string {
			ap := br.ArticulationPoints[i]
			return fmt.Sprintf("%-8s degree=%d  %s", ap.Label, ap.Degree, truncTitle(ap.Title, 40))
		})
	}
	if br.BridgeCount > 0 {
		fmt.Printf("  %d bridge edges:\n", br.BridgeCount)
		printList(len(br.BridgeEdges), listLimit, func(i int) string {
			be := br.BridgeEdges[i]
			return truncTitle(be.SourceTitle, 30) + " -- " + truncTitle(be.TargetTitle, 30)
		})
	}
	if n := len(br.FragileConnections); n > 0 {
		fmt.Printf("  %d category pairs joined by at most two links:\n", n)
		printList(n, listLimit, func(i int) string {
			fc := br.FragileConnections[i]
			return fmt.Sprintf("%s <-> %s (%d)",
				truncTitle(titleOf(snap, fc.RegionA), 25), truncTitle(titleOf(snap, fc.RegionB), 25), fc.CrossEdges)
		})
	}
}

func truncTitle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
