package main

import (
	"encoding/json"
	"fmt"

	"github.com/odvcencio/gitscope/pkg/object"
	"github.com/spf13/cobra"
)

func newParseCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <archive|dir>",
		Short: "Parse a repository archive and summarize what was found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := flags.openSnapshot(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			fmt.Fprintf(out, "HEAD:     %s\n", snap.Head)
			fmt.Fprintf(out, "Commits:  %d\n", len(snap.Commits))
			fmt.Fprintf(out, "Branches: %d\n", len(snap.Branches))
			fmt.Fprintf(out, "Tags:     %d\n", len(snap.Tags))
			fmt.Fprintf(out, "Objects:  %d commits, %d trees, %d blobs, %d tags\n",
				snap.Report.Objects[object.TypeCommit],
				snap.Report.Objects[object.TypeTree],
				snap.Report.Objects[object.TypeBlob],
				snap.Report.Objects[object.TypeTag],
			)
			fmt.Fprintf(out, "Elapsed:  %s\n", snap.Report.Elapsed)

			if n := len(snap.Report.DroppedObjects); n > 0 {
				fmt.Fprintf(out, "\n%s\n", delColor(fmt.Sprintf("Dropped %d object(s):", n)))
				for _, d := range snap.Report.DroppedObjects {
					fmt.Fprintf(out, "  %s  %s\n", d.Hash.Short(), d.Reason)
				}
			}
			if n := len(snap.Report.SkippedRefs); n > 0 {
				fmt.Fprintf(out, "\n%s\n", delColor(fmt.Sprintf("Skipped %d ref(s):", n)))
				for _, d := range snap.Report.SkippedRefs {
					fmt.Fprintf(out, "  %s  %s\n", d.Path, d.Reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full snapshot as JSON")
	return cmd
}
