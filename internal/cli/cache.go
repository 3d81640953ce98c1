package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/codereg/internal/cache"
	"github.com/dshills/codereg/internal/config"
)

var flagExpiredOnly bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the line-count cache used by scan",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached line counts",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fail(err)
			return
		}
		c, err := openCache(cfg, true)
		if err != nil {
			fail(err)
			return
		}
		n, err := c.Purge(flagExpiredOnly)
		if err != nil {
			fail(fmt.Errorf("clearing cache: %w", err))
			return
		}
		fmt.Fprintf(os.Stdout, "Cache cleared (%d entries).\n", n)
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache statistics",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fail(err)
			return
		}
		c, err := openCache(cfg, cfg.Cache.Enabled)
		if err != nil {
			fail(err)
			return
		}
		if c == nil {
			fmt.Fprintln(os.Stdout, "Cache is disabled.")
			return
		}
		u, err := c.Usage()
		if err != nil {
			fail(fmt.Errorf("reading cache stats: %w", err))
			return
		}
		data, err := json.MarshalIndent(u, "", "  ")
		if err != nil {
			fail(err)
			return
		}
		fmt.Fprintln(os.Stdout, string(data))
	},
}

func init() {
	cacheClearCmd.Flags().BoolVar(&flagExpiredOnly, "expired", false, "Only remove entries past their TTL")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}

// openCache opens the configured cache directory, or returns nil when
// enabled is false.
func openCache(cfg config.Config, enabled bool) (*cache.Store, error) {
	c, err := cache.Open(cache.Options{
		Enabled: enabled,
		Dir:     cfg.Cache.Dir,
		TTL:     time.Duration(cfg.Cache.TTLSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return c, nil
}
