package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/austinxramos/ncbi-api-client/pkg/client"
	"github.com/austinxramos/ncbi-api-client/pkg/models"
)

func newFetchCmd(flags *rootFlags) *cobra.Command {
	var (
		db        string
		rettype   string
		retmode   string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "fetch ID...",
		Short: "Fetch full records for a set of IDs via EFetch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.BatchRequest{IDs: args, DB: db, BatchSize: batchSize}
			if err := req.Validate(); err != nil {
				return err
			}

			c, err := buildClient(flags)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			batches, err := c.EFetchBatch(context.Background(), db, args, &client.BatchOptions{
				BatchSize: batchSize,
				Rettype:   rettype,
				Retmode:   retmode,
				OnProgress: func(batch, total int) {
					fmt.Fprintf(cmd.ErrOrStderr(), "batch %d/%d done\n", batch, total)
				},
			})
			if err != nil {
				return err
			}

			for _, body := range batches {
				fmt.Print(body)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "pubmed", "NCBI database to fetch from")
	cmd.Flags().StringVar(&rettype, "rettype", "abstract", "record format")
	cmd.Flags().StringVar(&retmode, "retmode", "xml", "response serialization")
	cmd.Flags().IntVar(&batchSize, "batch-size", 100, "IDs per request")
	return cmd
}
