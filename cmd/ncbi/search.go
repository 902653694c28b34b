package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/austinxramos/ncbi-api-client/pkg/client"
)

func newSearchCmd(flags *rootFlags) *cobra.Command {
	var (
		db       string
		retmax   int
		retstart int
		sortBy   string
	)

	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Run an ESearch query and print the matching IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildClient(flags)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			result, err := c.ESearch(context.Background(), db, args[0], &client.SearchOptions{
				Retmax:   retmax,
				Retstart: retstart,
				Sort:     sortBy,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Total results: %d\n", result.Count)
			fmt.Printf("Returned %d IDs:\n", len(result.IDList))
			for _, id := range result.IDList {
				fmt.Printf("  %s\n", id)
			}
			if result.QueryTranslation != "" {
				fmt.Printf("Query translation: %s\n", result.QueryTranslation)
			}
			for _, warning := range result.WarningList {
				fmt.Printf("Warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "pubmed", "NCBI database to search")
	cmd.Flags().IntVar(&retmax, "max-results", 20, "maximum number of IDs to return")
	cmd.Flags().IntVar(&retstart, "start", 0, "starting index for pagination")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort order (e.g. relevance, pub_date)")
	return cmd
}
