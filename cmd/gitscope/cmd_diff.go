package main

import (
	"fmt"

	"github.com/odvcencio/gitscope/pkg/linediff"
	"github.com/spf13/cobra"
)

func newDiffCmd(flags *globalFlags) *cobra.Command {
	var nameOnly bool
	var stat bool

	cmd := &cobra.Command{
		Use:   "diff <archive|dir> <from> <to>",
		Short: "Compare the trees of two revisions",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := flags.openSnapshot(cmd, args[0])
			if err != nil {
				return err
			}
			from, err := resolveCommit(snap, args[1])
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}
			to, err := resolveCommit(snap, args[2])
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}

			changes, err := snap.DiffTrees(from.Tree, to.Tree)
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}

			out := cmd.OutOrStdout()
			switch {
			case nameOnly:
				for _, ch := range changes {
					fmt.Fprintf(out, "%s\t%s\n", statusColor(ch.Status), ch.Path)
				}
			case stat:
				totalAdd, totalDel := 0, 0
				for _, ch := range changes {
					added, deleted := linediff.Stat(linediff.Lines(blobText(snap, ch.Before), blobText(snap, ch.After)))
					totalAdd += added
					totalDel += deleted
					fmt.Fprintf(out, " %s | %s %s\n", ch.Path, addColor(fmt.Sprintf("+%d", added)), delColor(fmt.Sprintf("-%d", deleted)))
				}
				fmt.Fprintf(out, " %d file(s) changed, %d insertion(s), %d deletion(s)\n", len(changes), totalAdd, totalDel)
			default:
				return writePatches(out, snap, changes)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&nameOnly, "name-status", false, "show only paths and change status")
	cmd.Flags().BoolVar(&stat, "stat", false, "show per-file line counts")
	return cmd
}
