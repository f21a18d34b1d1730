package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	trilium "github.com/trilium-community/trilium.go"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <noteId>",
		Short: "Export a note subtree as a zip archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd)
			if err != nil {
				return err
			}

			data, err := client.ExportNote(cmd.Context(), args[0], trilium.ExportFormat(format))
			if err != nil {
				return err
			}

			if output == "" {
				output = args[0] + ".zip"
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write archive: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(data))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <noteId>.zip)")
	cmd.Flags().StringVar(&format, "format", "html", "export format: html or markdown")

	return cmd
}
