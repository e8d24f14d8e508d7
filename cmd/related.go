package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"methodswiki/wikigraph/internal/db"
	"methodswiki/wikigraph/internal/importer"
)

var (
	relBudget       int
	relMaxHops      int
	relMaxCost      float64
	relCategory     bool
	relArticlesOnly bool
	relJSON         bool
	relEdgeTypes    string
)

var relatedCmd = &cobra.Command{
	Use:   "related <title>",
	Short: "Dijkstra expansion from a page over links and categories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		label := ""
		if relCategory {
			label = importer.LabelCategory
		}
		source, err := ResolveNode(ctx, d, label, args[0])
		if err != nil {
			return err
		}

		config := &db.RelatedConfig{
			Budget:  relBudget,
			MaxHops: relMaxHops,
			MaxCost: relMaxCost,
		}
		if relArticlesOnly {
			config.Labels = []string{importer.LabelArticle}
		}
		if relEdgeTypes != "" {
			config.EdgeTypes = splitList(relEdgeTypes)
		}

		results, err := d.Related(ctx, source.Label, source.Key, config)
		if err != nil {
			return fmt.Errorf("expanding from %s: %w", source.Key, err)
		}

		if relJSON {
			output := struct {
				Source  db.Node          `json:"source"`
				Budget  int              `json:"budget"`
				Results []db.RelatedNode `json:"results"`
				Count   int              `json:"count"`
			}{
				Source:  *source,
				Budget:  relBudget,
				Results: results,
				Count:   len(results),
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(output)
		}

		printRelatedHumanReadable(source, results)
		return nil
	},
}

func init() {
	relatedCmd.Flags().IntVar(&relBudget, "budget", 20, "Max nodes to return")
	relatedCmd.Flags().IntVar(&relMaxHops, "max-hops", 6, "Max graph depth")
	relatedCmd.Flags().Float64Var(&relMaxCost, "max-cost", 3.0, "Cost ceiling")
	relatedCmd.Flags().BoolVar(&relCategory, "category", false, "Start from the category with this name")
	relatedCmd.Flags().BoolVar(&relArticlesOnly, "articles-only", false, "Skip categories from results")
	relatedCmd.Flags().BoolVar(&relJSON, "json", false, "JSON output")
	relatedCmd.Flags().StringVar(&relEdgeTypes, "edge-types", "", "Comma-separated edge type allowlist")
	rootCmd.AddCommand(relatedCmd)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printRelatedHumanReadable(source *db.Node, results []db.RelatedNode) {
	if len(results) == 0 {
		fmt.Printf("No related pages found for: %s\n", source.Key)
		return
	}

	fmt.Printf("Related to: %s (%s)  budget=%d\n\n", source.Key, source.Label, relBudget)

	for _, r := range results {
		marker := "[A]"
		if r.Label == importer.LabelCategory {
			marker = "[C]"
		}
		fmt.Printf("  %2d. %s %s  dist=%.3f rel=%.0f%% hops=%d\n",
			r.Rank, marker, r.Key, r.Distance, r.Relevance*100, r.Hops)

		if len(r.Path) > 0 {
			hops := make([]string, len(r.Path))
			for i, hop := range r.Path {
				hops[i] = fmt.Sprintf("-[%s]- %s", hop.EdgeType, truncTitle(hop.Key, 40))
			}
			fmt.Printf("      %s\n", strings.Join(hops, " "))
		}
	}

	fmt.Printf("\n%d node(s) within budget\n", len(results))
}
