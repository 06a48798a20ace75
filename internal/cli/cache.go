package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/cache"
	"github.com/matzehuels/setlist/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// clearer is implemented by caches that can drop every entry.
type clearer interface {
	Clear(ctx context.Context) (int, error)
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.config().Cache.Backend == config.CacheNone {
				printInfo("Cache is disabled")
				return nil
			}
			cc, err := c.newCache(cmd.Context())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			cl, ok := cc.(clearer)
			if !ok {
				printInfo("Cache is empty")
				return nil
			}
			count, err := cl.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			if fc, ok := cc.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config().Cache
			switch cfg.Backend {
			case config.CacheRedis:
				fmt.Printf("redis://%s/%d (prefix %s)\n", cfg.RedisAddr, cfg.RedisDB, redisPrefix)
				return nil
			case config.CacheNone:
				printInfo("Cache is disabled")
				return nil
			}
			dir := cfg.Dir
			if dir == "" {
				d, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				dir = d
			}
			fmt.Println(dir)
			return nil
		},
	}
}
