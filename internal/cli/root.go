package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/orngkit/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "orngkit encodes attribute tables for linear learners and draws dendrograms",
		Long: `orngkit translates attribute/value tables into numeric arrays for logistic
regression and SVM learners, and clusters tables hierarchically with optimal
leaf ordering, rendering the result as a dendrogram.

Settings are read from orngkit.yaml in the working directory (or --config),
then ORNGKIT_* environment variables, then command-line flags.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./orngkit.yaml)")

	root.AddCommand(c.translateCommand())
	root.AddCommand(c.clusterCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
