package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dfdlayout/internal/config"
	"github.com/matzehuels/dfdlayout/pkg/cache"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.Config.Cache.Open(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				return apperr.New(apperr.ErrCodeUnsupported, "cache backend %q cannot be cleared", c.Config.Cache.Backend)
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("%s", cacheLocation(c.Config.Cache))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(cacheLocation(c.Config.Cache))
			return nil
		},
	}
}

// cacheLocation describes the configured backend: the directory for the
// file cache, the server address for the shared ones.
func cacheLocation(cc config.CacheConfig) string {
	switch cc.Backend {
	case config.BackendRedis:
		return "redis://" + cc.RedisAddr
	case config.BackendMongo:
		return cc.MongoURI
	case config.BackendNone:
		return "(disabled)"
	default:
		if cc.Dir == "" {
			return config.DefaultCacheDir()
		}
		return cc.Dir
	}
}
