package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mtb2597/repo-intel-agent/internal/config"
	"github.com/mtb2597/repo-intel-agent/pkg/acquire"
	"github.com/mtb2597/repo-intel-agent/pkg/acquire/github"
	"github.com/mtb2597/repo-intel-agent/pkg/acquire/local"
	"github.com/mtb2597/repo-intel-agent/pkg/cache"
	"github.com/mtb2597/repo-intel-agent/pkg/scan"
	"github.com/mtb2597/repo-intel-agent/pkg/store"
)

// newCache builds the acquirer response cache selected by the config.
// Backend "none" (or an unusable file backend) degrades to a null
// cache rather than failing the command.
func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return cache.NewNullCache(), nil
	case "file":
		c, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return c, nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// newScanner wires the store, acquirers, and scan options from config.
func newScanner(ctx context.Context, st *store.Store, cfg config.Config, logger *log.Logger, extra ...scan.Option) (*scan.Scanner, cache.Cache, error) {
	c, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	acquirers := []acquire.Acquirer{
		github.New(cfg.GitHub.Token, c),
		local.New(),
	}

	opts := []scan.Option{scan.WithLogger(logger)}
	if cfg.Scan.TimeoutSeconds > 0 {
		opts = append(opts, scan.WithTimeout(time.Duration(cfg.Scan.TimeoutSeconds)*time.Second))
	}
	opts = append(opts, extra...)
	return scan.New(st, acquirers, opts...), c, nil
}
