package main

import (
	"github.com/erraggy/apiflow/internal/cliutil"
	"github.com/erraggy/apiflow/resolver"
	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the remote document cache",
	}
	cacheCmd.AddCommand(newCachePurgeCommand(ctx))
	return cacheCmd
}

func newCachePurgeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired documents from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache, err := resolver.OpenCache(cfg.Cache.Path, cfg.CacheTTL())
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			n, err := cache.Purge(cmd.Context())
			if err != nil {
				return err
			}
			cliutil.Writef(cmd.OutOrStdout(), "Removed %d expired documents from %s\n", n, cfg.Cache.Path)
			return nil
		},
	}
}
