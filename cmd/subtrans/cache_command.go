package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"subtrans/internal/translationcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the translation cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func withCacheStore(ctx *commandContext, cmd *cobra.Command, fn func(*translationcache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Cache.Enabled {
		return errors.New("translation cache is disabled (cache.enabled = false)")
	}
	store, err := translationcache.Open(cmd.Context(), cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show translation cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, cmd, func(store *translationcache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Path:    %s\n", store.Path())
				fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
				fmt.Fprintf(out, "Models:  %d\n", stats.Models)
				fmt.Fprintf(out, "Hits:    %d\n", stats.Hits)
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached translation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, cmd, func(store *translationcache.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached translations\n", removed)
				return nil
			})
		},
	}
}
