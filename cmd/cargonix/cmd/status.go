package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show declared sources and whether the output is stale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		statuses, err := client.Sources()
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			info("No sources declared in %s.", configPath)
			return nil
		}

		for _, s := range statuses {
			state := "complete"
			if !s.Complete {
				state = "missing hash"
			}
			info("  %-20s  %-10s  %-40s  %s", s.Name, s.Type, s.Identity, state)
		}

		stale, reason, err := client.Outdated()
		if err != nil {
			return err
		}
		if stale {
			info("\nMaterialized output is stale: %s", reason)
		} else {
			info("\nMaterialized output is up to date.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
