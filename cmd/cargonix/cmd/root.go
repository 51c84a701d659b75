package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	executor   string
	verbose    bool
	quiet      bool
	noCache    bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "cargonix",
})

var rootCmd = &cobra.Command{
	Use:   "cargonix",
	Short: "Manage out-of-tree Cargo build sources via nix",
	Long: `cargonix manages out-of-tree build sources for a nix-backed Cargo
workspace. It records source declarations (crates.io packages, git
checkouts, nix expressions) in cargonix.yaml, pins each with a content
hash at add time, generates the cargonix-sources.nix descriptor, and
drives the nix build executor to materialize every source into the
cargonix-sources output directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case quiet:
			logger.SetLevel(log.ErrorLevel)
		case verbose:
			logger.SetLevel(log.DebugLevel)
		default:
			logger.SetLevel(log.InfoLevel)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cargonix %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "cargonix.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&executor, "executor", "nix", "build executor binary")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "do not reuse previously prefetched hashes")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}
