package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/gitscope/pkg/linediff"
	"github.com/odvcencio/gitscope/pkg/object"
	"github.com/odvcencio/gitscope/pkg/repo"
	"github.com/spf13/cobra"
)

func newShowCmd(flags *globalFlags) *cobra.Command {
	var patch bool

	cmd := &cobra.Command{
		Use:   "show <archive|dir> [revision]",
		Short: "Show commit metadata and changed files",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := flags.openSnapshot(cmd, args[0])
			if err != nil {
				return err
			}

			target := "HEAD"
			if len(args) == 2 {
				target = args[1]
			}
			c, err := resolveCommit(snap, target)
			if err != nil {
				return fmt.Errorf("show: %w", err)
			}

			out := cmd.OutOrStdout()
			printLogEntry(out, snap, c, false)
			if len(c.Branches) > 0 {
				fmt.Fprintf(out, "Branches: %v\n\n", c.Branches)
			}

			changes, err := snap.CommitChanges(c.Hash)
			if err != nil {
				return fmt.Errorf("show: %w", err)
			}
			if len(changes) == 0 {
				return nil
			}

			fmt.Fprintln(out, "Changes:")
			for _, ch := range changes {
				fmt.Fprintf(out, "  %s %s\n", statusColor(ch.Status), ch.Path)
			}
			if patch {
				fmt.Fprintln(out)
				return writePatches(out, snap, changes)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&patch, "patch", "p", false, "print line diffs of changed files")
	return cmd
}

func statusColor(s repo.ChangeStatus) string {
	switch s {
	case repo.ChangeAdded:
		return addColor(string(s))
	case repo.ChangeDeleted:
		return delColor(string(s))
	default:
		return string(s)
	}
}

// writePatches prints a unified diff for every changed path.
func writePatches(out io.Writer, snap *repo.Snapshot, changes []repo.TreeChange) error {
	for _, ch := range changes {
		oldPath, newPath := ch.Path, ch.Path
		switch ch.Status {
		case repo.ChangeAdded:
			oldPath = ""
		case repo.ChangeDeleted:
			newPath = ""
		}
		if err := linediff.WriteUnified(out, oldPath, newPath, blobText(snap, ch.Before), blobText(snap, ch.After), linediff.DefaultContext); err != nil {
			return err
		}
	}
	return nil
}

func blobText(snap *repo.Snapshot, h object.Hash) string {
	if h == "" {
		return ""
	}
	if b, ok := snap.Objects.Blob(h); ok {
		return b.Content
	}
	return ""
}
