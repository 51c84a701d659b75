package cmd

import (
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Regenerate the sources descriptor file",
	Long: `Writes cargonix-sources.nix next to the config file from the current
source declarations. An existing descriptor is only replaced when it
carries the generated marker; hand-authored files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.Generate(); err != nil {
			return err
		}
		info("Descriptor regenerated.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
