package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	trilium "github.com/trilium-community/trilium.go"
	"github.com/trilium-community/trilium.go/notemap"
)

func newMapCmd(opts *options) *cobra.Command {
	var (
		configPath string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "map <query>",
		Short: "Map search hits to JSON records via a field configuration",
		Long: `map searches for notes and runs every hit through a declarative
field mapping, printing one JSON object per line. The built-in mapping
covers the usual publishing fields (id, title, slug, tags, dates); a
YAML configuration file extends or overrides it.`,
		Example: `  triliumctl map "#blog"
  triliumctl map "#recipe" -c recipe-fields.yaml --limit 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd)
			if err != nil {
				return err
			}

			cfg := notemap.StandardFields()
			if configPath != "" {
				data, err := os.ReadFile(configPath)
				if err != nil {
					return fmt.Errorf("failed to read mapping config: %w", err)
				}
				custom, err := notemap.ParseConfig(data)
				if err != nil {
					return err
				}
				cfg = notemap.Merge(cfg, custom)
			}
			mapper := notemap.New[map[string]any](cfg)

			var searchOpts *trilium.SearchOptions
			if limit > 0 {
				searchOpts = &trilium.SearchOptions{Limit: limit}
			}

			result, err := notemap.SearchAndMap(cmd.Context(), client, mapper, args[0], searchOpts)
			if err != nil {
				return err
			}

			for _, record := range result.Values {
				line, err := json.Marshal(record)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(line))
			}
			for _, failure := range result.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", failure.NoteID, failure.Reason)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML mapping configuration file")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of results")

	return cmd
}
