package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"methodswiki/wikigraph/internal/importer"
)

var (
	importArticlesOnly   bool
	importCategoriesOnly bool
	importFailFast       bool
	importJSON           bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import categories and articles from the data directory into the graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		if importArticlesOnly && importCategoriesOnly {
			return fmt.Errorf("--articles-only and --categories-only are mutually exclusive")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		store, err := OpenStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}

		im := importer.New(store, importer.WithBaseURL(cfg.BaseURL))
		summary, err := im.ImportDir(ctx, cfg.DataDir, importer.BatchOptions{
			SkipArticles:   importCategoriesOnly,
			SkipCategories: importArticlesOnly,
			FailFast:       importFailFast,
		})

		if summary != nil {
			if importJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(summary); encErr != nil {
					return encErr
				}
			} else {
				printImportSummary(summary)
			}
		}
		if err != nil {
			return err
		}
		if n := len(summary.Failed); n > 0 {
			return fmt.Errorf("%d file(s) failed to import", n)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importArticlesOnly, "articles-only", false, "Skip categories")
	importCmd.Flags().BoolVar(&importCategoriesOnly, "categories-only", false, "Skip articles")
	importCmd.Flags().BoolVar(&importFailFast, "fail-fast", false, "Stop at the first file that fails")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(importCmd)
}

func printImportSummary(s *importer.Summary) {
	fmt.Printf("Imported %d categories, %d articles\n", s.Categories, s.Articles)
	if len(s.Failed) == 0 {
		return
	}
	fmt.Printf("%d failed:\n", len(s.Failed))
	for _, f := range s.Failed {
		fmt.Printf("  %-8s %s: %s\n", f.Kind, f.File, f.Msg)
	}
}
