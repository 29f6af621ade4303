package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var flags cacheFlags
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := newCache(ctx, flags)
			if err != nil {
				return err
			}
			defer store.Close()

			ui := c.ui()
			clearer, ok := store.(cache.Clearer)
			if !ok {
				ui.info("Cache backend cannot be cleared")
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}

			ui.success("Cache cleared")
			switch s := store.(type) {
			case *cache.FileCache:
				ui.detail("Directory: %s", s.Dir())
			case *cache.RedisCache:
				ui.detail("Redis: %s", flags.redisURL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.redisURL, "redis", "", "clear a redis cache instead of the local one")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "locate cache directory")
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}
