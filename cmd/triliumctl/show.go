package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newShowCmd(opts *options) *cobra.Command {
	var render bool

	cmd := &cobra.Command{
		Use:   "show <noteId>",
		Short: "Print a note's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd)
			if err != nil {
				return err
			}

			content, err := client.GetNoteContent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !render {
				fmt.Fprintln(cmd.OutOrStdout(), content)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return err
			}
			rendered, err := renderer.Render(content)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)

			return nil
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "treat the content as Markdown and render it for the terminal")

	return cmd
}
