package main

import (
	"fmt"

	"github.com/spf13/cobra"

	trilium "github.com/trilium-community/trilium.go"
)

func newGetCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <noteId>",
		Short: "Print a note's metadata and attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd)
			if err != nil {
				return err
			}

			note, err := client.GetNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, note)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%s (%s)\n", note.NoteID, note.Title, note.Type)
			if note.DateModified != "" {
				fmt.Fprintf(out, "modified: %s\n", note.DateModified)
			}
			for _, attr := range note.Attributes {
				switch {
				case attr.Type == trilium.AttributeLabel && attr.Value == "":
					fmt.Fprintf(out, "  #%s\n", attr.Name)
				case attr.Type == trilium.AttributeLabel:
					fmt.Fprintf(out, "  #%s=%s\n", attr.Name, attr.Value)
				case attr.Type == trilium.AttributeRelation:
					fmt.Fprintf(out, "  ~%s=%s\n", attr.Name, attr.Value)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw note JSON")

	return cmd
}
