package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/odvcencio/gitscope/pkg/object"
	"github.com/odvcencio/gitscope/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatCmd(flags *globalFlags) *cobra.Command {
	var typeOnly bool

	cmd := &cobra.Command{
		Use:   "cat <archive|dir> <object|revision[:path]>",
		Short: "Print an object, or a file as of a revision",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := flags.openSnapshot(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			rev, path, hasPath := strings.Cut(args[1], ":")
			if hasPath {
				c, err := resolveCommit(snap, rev)
				if err != nil {
					return fmt.Errorf("cat: %w", err)
				}
				blob, err := snap.FileAtCommit(c.Hash, path)
				if err != nil {
					return fmt.Errorf("cat: %w", err)
				}
				if typeOnly {
					fmt.Fprintln(out, object.TypeBlob)
					return nil
				}
				_, err = io.WriteString(out, blob.Content)
				return err
			}

			h, err := snap.ResolveRevision(rev)
			if err != nil {
				return fmt.Errorf("cat: %w", err)
			}
			obj, ok := snap.Object(h)
			if !ok {
				return fmt.Errorf("cat: object %s: %w", h, repo.ErrNotFound)
			}
			if typeOnly {
				fmt.Fprintln(out, obj.Type())
				return nil
			}
			return printObject(out, obj)
		},
	}

	cmd.Flags().BoolVarP(&typeOnly, "type", "t", false, "print only the object type")
	return cmd
}

func printObject(out io.Writer, obj object.Object) error {
	switch o := obj.(type) {
	case *object.BlobObj:
		_, err := io.WriteString(out, o.Content)
		return err
	case *object.TreeObj:
		for _, e := range o.Entries {
			mode := e.Mode
			if len(mode) < 6 {
				mode = strings.Repeat("0", 6-len(mode)) + mode
			}
			fmt.Fprintf(out, "%s %s %s\t%s\n", mode, e.Kind, e.Hash, e.Name)
		}
		return nil
	case *object.CommitObj:
		_, err := out.Write(object.MarshalCommit(o))
		return err
	case *object.TagObj:
		_, err := out.Write(object.MarshalTag(o))
		return err
	default:
		return fmt.Errorf("cat: unexpected object %T", obj)
	}
}
