package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/odvcencio/gitscope/pkg/export"
	"github.com/spf13/cobra"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	var output string
	var compress bool

	cmd := &cobra.Command{
		Use:   "export <archive|dir>",
		Short: "Write the parsed snapshot as a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := flags.openSnapshot(cmd, args[0])
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return export.Write(cmd.OutOrStdout(), snap, compress)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := export.Write(f, snap, compress); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("export: %w", err)
			}

			if info, err := os.Stat(output); err == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", output, humanize.Bytes(uint64(info.Size())))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&compress, "zstd", false, "compress the document with zstd")
	return cmd
}
