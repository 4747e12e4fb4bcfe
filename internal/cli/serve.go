package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtb2597/repo-intel-agent/internal/server"
	"github.com/mtb2597/repo-intel-agent/pkg/extract"
	"github.com/mtb2597/repo-intel-agent/pkg/scan"
	"github.com/mtb2597/repo-intel-agent/pkg/store"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the long-lived scan store and HTTP API",
		Long: `Serve keeps an in-memory store of scan results and exposes it over a
JSON HTTP API. When a Mongo URI is configured, previously archived
results are restored on startup and every completed scan is archived.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st := store.New()

			var opts []scan.Option
			if cfg.Mongo.URI != "" {
				archive, err := store.NewMongoArchive(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
				if err != nil {
					return err
				}
				defer func() {
					closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = archive.Close(closeCtx)
				}()

				sets, err := archive.LoadAll(ctx)
				if err != nil {
					return err
				}
				for _, set := range sets {
					st.Put(set)
				}
				logger.Info("restored archived scan results", "repos", len(sets))

				opts = append(opts, scan.WithSink(func(ctx context.Context, set *extract.Set) {
					if err := archive.Save(ctx, set); err != nil {
						logger.Warn("archiving scan result failed", "repo", set.Repo, "err", err)
					}
				}))
			}

			scanner, c, err := newScanner(ctx, st, cfg, logger, opts...)
			if err != nil {
				return err
			}
			defer c.Close()

			srv := server.New(st, scanner, logger)
			httpSrv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.Server.Addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = httpSrv.Shutdown(shutdownCtx)
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
