package cmd

import (
	"fmt"
	"path"
	"strings"

	"github.com/cargonix/cargonix/pkg/cargonix"
	"github.com/spf13/cobra"
)

var (
	addName  string
	addForce bool
	addRev   string
	addRef   string
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage out-of-tree source declarations",
}

var sourceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Declare a new source and prefetch its content hash",
}

var sourceAddCratesIOCmd = &cobra.Command{
	Use:   "crates-io <package> <version>",
	Short: "Declare a crates.io package as an out-of-tree source",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pkg, version := args[0], args[1]
		name := addName
		if name == "" {
			name = pkg
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.AddCratesIO(cmd.Context(), name, pkg, version, cargonix.AddOptions{Force: addForce}); err != nil {
			return err
		}
		info("Added source '%s' (%s %s).", name, pkg, version)
		return nil
	},
}

var sourceAddGitCmd = &cobra.Command{
	Use:   "git <url>",
	Short: "Declare a git checkout as an out-of-tree source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		if addRev == "" {
			return fmt.Errorf("--rev is required; pin an exact revision")
		}
		name := addName
		if name == "" {
			name = repoBaseName(url)
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.AddGit(cmd.Context(), name, url, addRev, addRef, cargonix.AddOptions{Force: addForce}); err != nil {
			return err
		}
		info("Added source '%s' (%s).", name, url)
		return nil
	},
}

var (
	addNixFile string
	addNixExpr string
	addNixAttr string
)

var sourceAddNixCmd = &cobra.Command{
	Use:   "nix <name>",
	Short: "Declare a pre-resolved nix expression as an out-of-tree source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.AddNix(cmd.Context(), name, addNixFile, addNixExpr, addNixAttr, cargonix.AddOptions{Force: addForce}); err != nil {
			return err
		}
		info("Added source '%s'.", name)
		return nil
	},
}

// repoBaseName derives a default source name from a repository URL.
func repoBaseName(url string) string {
	base := path.Base(strings.TrimSuffix(strings.TrimRight(url, "/"), ".git"))
	if base == "." || base == "/" || base == "" {
		return "source"
	}
	return base
}

func init() {
	sourceAddCmd.PersistentFlags().StringVar(&addName, "name", "", "source name (defaults to the package or repository name)")
	sourceAddCmd.PersistentFlags().BoolVar(&addForce, "force", false, "replace an existing declaration of the same name")
	sourceAddGitCmd.Flags().StringVar(&addRev, "rev", "", "git revision to pin")
	sourceAddGitCmd.Flags().StringVar(&addRef, "ref", "", "git ref containing the revision (optional)")
	sourceAddNixCmd.Flags().StringVar(&addNixFile, "file", "", "nix file to import")
	sourceAddNixCmd.Flags().StringVar(&addNixExpr, "expr", "", "inline nix expression")
	sourceAddNixCmd.Flags().StringVar(&addNixAttr, "attr", "", "attribute to select from the expression (optional)")

	sourceAddCmd.AddCommand(sourceAddCratesIOCmd)
	sourceAddCmd.AddCommand(sourceAddGitCmd)
	sourceAddCmd.AddCommand(sourceAddNixCmd)
	sourceCmd.AddCommand(sourceAddCmd)
	rootCmd.AddCommand(sourceCmd)
}
