package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the tables or uniqueness constraints of the selected backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := OpenStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Schema ready on %s backend\n", cfg.Backend)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
