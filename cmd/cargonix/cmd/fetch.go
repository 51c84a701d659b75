package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchForce bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Materialize the declared sources and list their manifests",
	Long: `Regenerates the descriptor file if the materialized output is stale,
drives the build executor to fetch every declared source, and prints the
path of each workspace member manifest.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if fetchForce {
			if _, err := client.Fetch(cmd.Context()); err != nil {
				return err
			}
		}

		discovery, err := client.Members(cmd.Context())
		if err != nil {
			return err
		}

		for _, m := range discovery.Members {
			fmt.Println(m.ManifestPath)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "refetch even if the materialized output is up to date")
	rootCmd.AddCommand(fetchCmd)
}
