package main

import (
	"fmt"

	"github.com/spf13/cobra"

	trilium "github.com/trilium-community/trilium.go"
)

func newSearchCmd(opts *options) *cobra.Command {
	var (
		limit    int
		fast     bool
		archived bool
		ancestor string
		orderBy  string
		desc     bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes with a Trilium query string",
		Example: `  triliumctl search "#blog AND note.type = 'text'"
  triliumctl search "#todo" --limit 20 --order-by title`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd)
			if err != nil {
				return err
			}

			searchOpts := &trilium.SearchOptions{
				FastSearch:           fast,
				IncludeArchivedNotes: archived,
				AncestorNoteID:       ancestor,
				OrderBy:              orderBy,
				Limit:                limit,
			}
			if desc {
				searchOpts.OrderDirection = "desc"
			}

			notes, err := client.SearchNotes(cmd.Context(), args[0], searchOpts)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, notes)
			}
			for _, note := range notes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", note.NoteID, note.Title)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of results")
	cmd.Flags().BoolVar(&fast, "fast", false, "skip fulltext search over note contents")
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived notes")
	cmd.Flags().StringVar(&ancestor, "ancestor", "", "restrict results to the subtree under this note ID")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "property to sort by, e.g. title or #publicationDate")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending (with --order-by)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print full note records as JSON")

	return cmd
}
