package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/odvcencio/gitscope/pkg/object"
	"github.com/spf13/cobra"
)

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <archive|dir>",
		Short: "Summarize commits, authors and objects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := flags.openSnapshot(cmd, args[0])
			if err != nil {
				return err
			}
			st := snap.Stats()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Commits:     %s (%d merges)\n", humanize.Comma(int64(st.TotalCommits)), st.MergeCommits)
			fmt.Fprintf(out, "Branches:    %d\n", st.TotalBranches)
			fmt.Fprintf(out, "Tags:        %d\n", st.TotalTags)
			fmt.Fprintf(out, "Authors:     %d\n", len(st.Authors))
			if len(st.Authors) > 0 {
				fmt.Fprintf(out, "             %s\n", strings.Join(st.Authors, ", "))
			}
			fmt.Fprintf(out, "First:       %s\n", formatTime(st.Earliest))
			fmt.Fprintf(out, "Last:        %s", formatTime(st.Latest))
			if st.Latest != nil {
				fmt.Fprintf(out, " (%s)", humanize.Time(*st.Latest))
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Objects:     %s commits, %s trees, %s blobs, %s tags\n",
				humanize.Comma(int64(st.Objects[object.TypeCommit])),
				humanize.Comma(int64(st.Objects[object.TypeTree])),
				humanize.Comma(int64(st.Objects[object.TypeBlob])),
				humanize.Comma(int64(st.Objects[object.TypeTag])),
			)
			fmt.Fprintf(out, "Blob data:   %s\n", humanize.Bytes(uint64(st.BlobBytes)))
			fmt.Fprintf(out, "Unreachable: %d\n", st.Unreachable)
			return nil
		},
	}
}
