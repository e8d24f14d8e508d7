package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"methodswiki/wikigraph/internal/wikiapi"
)

var fetchAPI string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download every article and category from the wiki into the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		apiURL := cfg.APIURL
		if fetchAPI != "" {
			apiURL = fetchAPI
		}
		client := wikiapi.NewClient(wikiapi.Params{
			APIURL:    apiURL,
			UserAgent: cfg.UserAgent,
			Interval:  cfg.RateLimit,
		})

		summary, err := wikiapi.Download(ctx, client, cfg.DataDir)
		if summary != nil {
			fmt.Printf("Downloaded %d articles, %d categories into %s\n", summary.Articles, summary.Categories, cfg.DataDir)
			if len(summary.Failed) > 0 {
				fmt.Printf("%d skipped:\n", len(summary.Failed))
				for _, title := range summary.Failed {
					fmt.Printf("  - %s\n", title)
				}
			}
		}
		return err
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchAPI, "api", "", "api.php endpoint (overrides WIKI_API_URL)")
	rootCmd.AddCommand(fetchCmd)
}
