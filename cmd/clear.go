package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"methodswiki/wikigraph/internal/importer"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear <label>...",
	Short: "Delete every node of the given labels (Article, Category) and their relationships",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			return fmt.Errorf("refusing to clear %v without --yes", args)
		}

		store, err := OpenStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		im := importer.New(store)
		for _, label := range args {
			if err := im.ClearEntity(cmd.Context(), label); err != nil {
				return err
			}
			fmt.Printf("Cleared %s\n", label)
		}
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deletion")
	rootCmd.AddCommand(clearCmd)
}
