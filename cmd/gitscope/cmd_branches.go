package main

import (
	"fmt"

	"github.com/odvcencio/gitscope/pkg/repo"
	"github.com/spf13/cobra"
)

func newBranchesCmd(flags *globalFlags) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "branches <archive|dir>",
		Short: "List branches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := flags.openSnapshot(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, b := range snap.Branches {
				marker := "  "
				name := b.Name
				if snap.Head.Kind == repo.HeadSymbolic && snap.Head.Branch == b.Name {
					marker = "* "
					name = branchColor(b.Name)
				}
				if !verbose {
					fmt.Fprintf(out, "%s%s\n", marker, name)
					continue
				}
				subject := "(missing commit)"
				if c, ok := snap.Commit(b.Hash); ok {
					subject = c.Subject()
				}
				fmt.Fprintf(out, "%s%s %s %s\n", marker, name, hashColor(b.Hash.Short()), subject)
			}
			if snap.Head.Kind == repo.HeadDetached {
				fmt.Fprintf(out, "* %s\n", headColor("(HEAD detached at "+snap.Head.Hash.Short()+")"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the tip commit of each branch")
	return cmd
}
