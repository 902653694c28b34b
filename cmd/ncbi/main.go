package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/austinxramos/ncbi-api-client/pkg/cache/sqlite"
	"github.com/austinxramos/ncbi-api-client/pkg/client"
	"github.com/austinxramos/ncbi-api-client/pkg/config"
)

var version = "dev"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	email      string
	apiKey     string
	configPath string
	noCache    bool
	verbose    bool
}

func main() {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:     "ncbi",
		Short:   "NCBI E-utilities command line client",
		Version: version,
	}
	root.PersistentFlags().StringVar(&flags.email, "email", os.Getenv("NCBI_EMAIL"), "contact email required by NCBI (or set NCBI_EMAIL)")
	root.PersistentFlags().StringVar(&flags.apiKey, "api-key", os.Getenv("NCBI_API_KEY"), "optional NCBI API key (or set NCBI_API_KEY)")
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	root.PersistentFlags().BoolVar(&flags.noCache, "no-cache", false, "disable the on-disk response cache")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSearchCmd(flags),
		newFetchCmd(flags),
		newCacheCmd(flags),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges the config file with command line overrides.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.email != "" {
		cfg.Email = flags.email
	}
	if flags.apiKey != "" {
		cfg.APIKey = flags.apiKey
	}
	if flags.noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

func newLogger(flags *rootFlags) (*zap.Logger, error) {
	if flags.verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

// buildClient constructs a Client from the merged configuration.
func buildClient(flags *rootFlags) (*client.Client, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	if cfg.Email == "" {
		return nil, fmt.Errorf("email must be provided via --email, NCBI_EMAIL or the config file")
	}

	logger, err := newLogger(flags)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithBaseURL(cfg.BaseURL),
		client.WithMaxRetries(cfg.MaxRetries),
		client.WithLogger(logger),
	}
	if cfg.APIKey != "" {
		opts = append(opts, client.WithAPIKey(cfg.APIKey))
	}
	if cfg.RateInterval > 0 {
		opts = append(opts, client.WithRateInterval(cfg.RateInterval))
	}
	if cfg.Cache.Enabled {
		store, err := sqlite.New(cfg.Cache.DBPath())
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithCache(store), client.WithCacheMaxAge(cfg.Cache.MaxAge))
	}

	return client.New(cfg.Email, opts...)
}
