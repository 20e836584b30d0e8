package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/odvcencio/gitscope/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd(flags *globalFlags) *cobra.Command {
	var oneline bool
	var limit int
	var all bool

	cmd := &cobra.Command{
		Use:   "log <archive|dir> [branch]",
		Short: "Show commit history, newest first",
		Long: "Show the commits reachable from a branch (HEAD's branch by default), " +
			"newest first. With --all every commit is listed, including unreachable ones.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := flags.openSnapshot(cmd, args[0])
			if err != nil {
				return err
			}

			branch := ""
			switch {
			case len(args) == 2:
				branch = args[1]
				if _, ok := snap.Branch(branch); !ok {
					return fmt.Errorf("unknown branch %q", branch)
				}
			case !all && snap.Head.Kind == repo.HeadSymbolic:
				branch = snap.Head.Branch
			}

			history := snap.CommitHistory(branch)
			out := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintln(out, "no commits")
				return nil
			}

			shown := 0
			for i := len(history) - 1; i >= 0; i-- {
				if limit > 0 && shown >= limit {
					break
				}
				shown++
				printLogEntry(out, snap, history[i], oneline)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of commits to show (0 for all)")
	cmd.Flags().BoolVar(&all, "all", false, "list every commit instead of one branch")
	return cmd
}

func printLogEntry(out io.Writer, snap *repo.Snapshot, c *repo.Commit, oneline bool) {
	deco := decoration(snap, c.Hash)

	if oneline {
		line := hashColor(c.ShortHash)
		if deco != "" {
			line += " " + deco
		}
		fmt.Fprintf(out, "%s %s\n", line, c.Subject())
		return
	}

	if deco != "" {
		fmt.Fprintf(out, "%s %s\n", hashColor("commit "+string(c.Hash)), deco)
	} else {
		fmt.Fprintln(out, hashColor("commit "+string(c.Hash)))
	}
	if c.IsMerge() {
		short := make([]string, len(c.Parents))
		for i, p := range c.Parents {
			short[i] = p.Short()
		}
		fmt.Fprintf(out, "Merge:  %s\n", strings.Join(short, " "))
	}
	fmt.Fprintf(out, "Author: %s\n", formatIdentity(c.Author))
	fmt.Fprintf(out, "Date:   %s\n", formatDate(c))
	fmt.Fprintln(out)
	for _, line := range strings.Split(c.Message, "\n") {
		fmt.Fprintf(out, "    %s\n", line)
	}
	fmt.Fprintln(out)
}
