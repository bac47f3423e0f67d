package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/dynakv/pkg/cache"
	"github.com/cuemby/dynakv/pkg/config"
	"github.com/cuemby/dynakv/pkg/localstore"
	"github.com/cuemby/dynakv/pkg/store"
)

// kvClient is the surface every command needs, satisfied by both a bare
// *store.Client and one wrapped in the read-through LRU cache — callers
// never need to know which they got.
type kvClient = cache.KeyValueClient

// buildClient resolves a kvClient from persistent flags: --db selects the
// bbolt-backed local emulator, otherwise a real DynamoDB client is built
// from --config layered with --table/--region/--endpoint overrides.
// --cache-size wraps whichever backend was chosen in a read-through LRU
// cache of point reads.
func buildClient(ctx context.Context, cmd *cobra.Command) (kvClient, func() error, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	table, _ := cmd.Flags().GetString("table")
	region, _ := cmd.Flags().GetString("region")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	configPath, _ := cmd.Flags().GetString("config")
	cacheSize, _ := cmd.Flags().GetInt("cache-size")

	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	cfg = cfg.FromEnvironment()
	if table != "" {
		cfg.Table = table
	}
	if region != "" {
		cfg.Region = region
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if cfg.Table == "" {
		return nil, nil, fmt.Errorf("no table specified: pass --table, set DYNAKV_TABLE, or use --config")
	}

	var client kvClient
	var closeFn func() error

	if dbPath != "" {
		backend, err := localstore.Open(dbPath)
		if err != nil {
			return nil, nil, err
		}
		if _, err := store.EnsureLocalTable(ctx, backend, cfg.Table); err != nil {
			_ = backend.Close()
			return nil, nil, err
		}
		client, closeFn = store.NewWithBackend(backend, cfg.Table), backend.Close
	} else {
		api, err := config.NewDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		client, closeFn = store.New(api, cfg.Table), func() error { return nil }
	}

	if cacheSize > 0 {
		cached, err := cache.New(client, cacheSize)
		if err != nil {
			return nil, nil, fmt.Errorf("build cache: %w", err)
		}
		client = cached
	}
	return client, closeFn, nil
}
