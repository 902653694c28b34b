package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/austinxramos/ncbi-api-client/pkg/cache/sqlite"
)

func newCacheCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			store, err := sqlite.New(cfg.Cache.DBPath())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.Stats()
			if err != nil {
				return err
			}

			fmt.Printf("Entries: %d\nHits:    %d\n\n", stats.TotalEntries, stats.TotalHits)

			endpoints := make([]string, 0, len(stats.ByEndpoint))
			for endpoint := range stats.ByEndpoint {
				endpoints = append(endpoints, endpoint)
			}
			sort.Strings(endpoints)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ENDPOINT\tENTRIES")
			for _, endpoint := range endpoints {
				fmt.Fprintf(w, "%s\t%d\n", endpoint, stats.ByEndpoint[endpoint])
			}
			return w.Flush()
		},
	}

	var staleOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			store, err := sqlite.New(cfg.Cache.DBPath())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if staleOnly {
				deleted, err := store.ClearStale(cfg.Cache.MaxAge)
				if err != nil {
					return err
				}
				fmt.Printf("Cleared %d stale cache entries.\n", deleted)
				return nil
			}

			if err := store.ClearAll(); err != nil {
				return err
			}
			fmt.Println("All cache entries cleared.")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&staleOnly, "stale", false, "only clear entries older than the configured max age")

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
