package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "gitscope",
		Short:         "Inspect the history stored in an archived .git directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root)

	root.AddCommand(newVersionCmd())
	root.AddCommand(newParseCmd(&flags))
	root.AddCommand(newLogCmd(&flags))
	root.AddCommand(newBranchesCmd(&flags))
	root.AddCommand(newTagsCmd(&flags))
	root.AddCommand(newShowCmd(&flags))
	root.AddCommand(newCatCmd(&flags))
	root.AddCommand(newDiffCmd(&flags))
	root.AddCommand(newStatsCmd(&flags))
	root.AddCommand(newExportCmd(&flags))
	root.AddCommand(newServeCmd(&flags))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gitscope %s\n", version)
		},
	}
}
