package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <archive|dir>",
		Short: "List tags with the commits they point at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := flags.openSnapshot(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range snap.Tags {
				kind := "lightweight"
				if t.Peeled != "" {
					kind = "annotated"
				}
				fmt.Fprintf(out, "%s %s %s\n", tagColor(t.Name), hashColor(t.Target().Short()), kind)
			}
			return nil
		},
	}
}
