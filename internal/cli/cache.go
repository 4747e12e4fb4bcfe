package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the acquirer response cache",
	}
	cmd.AddCommand(newCacheInfoCmd())
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache backend, location, and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context()).Cache

			backend := cfg.Backend
			if backend == "" {
				backend = "none"
			}
			printKeyValue("backend", backend)
			switch backend {
			case "file":
				printKeyValue("directory", cfg.Dir)
				count, size := cacheUsage(cfg.Dir)
				printKeyValue("entries", fmt.Sprintf("%d", count))
				printKeyValue("size", fmt.Sprintf("%d bytes", size))
			case "redis":
				printKeyValue("redis", cfg.RedisAddr)
			}
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached acquirer responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context()).Cache
			if cfg.Backend != "file" && cfg.Backend != "" {
				return fmt.Errorf("cache clear supports the file backend, not %q", cfg.Backend)
			}

			if _, err := os.Stat(cfg.Dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}
			count, _ := cacheUsage(cfg.Dir)
			if err := os.RemoveAll(cfg.Dir); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", cfg.Dir)
			return nil
		},
	}
}

// cacheUsage walks dir counting cache entry files and their total size.
func cacheUsage(dir string) (count int, size int64) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		count++
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return count, size
}
