package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mtb2597/repo-intel-agent/internal/config"
	"github.com/mtb2597/repo-intel-agent/pkg/buildinfo"
)

// cfgKey is the context key for the loaded configuration.
const cfgKey ctxKey = 1

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, cfgKey, cfg)
}

func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(cfgKey).(config.Config); ok {
		return cfg
	}
	return config.Default()
}

// Execute runs the repo-intel CLI and returns an error if any command
// fails. Logging defaults to info level on stderr; --verbose (-v)
// switches to debug. The logger and loaded configuration are attached
// to the command context.
func Execute(ctx context.Context) error {
	var (
		verbose bool
		cfgPath string
	)

	root := &cobra.Command{
		Use:          "repo-intel",
		Short:        "repo-intel inventories declared build dependencies across repositories",
		Long:         `repo-intel scans repositories for build descriptor files, resolves declared dependency versions, and answers cross-repository version and drift questions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("repo-intel %s\ncommit: %s\nbuilt: %s\n",
		buildinfo.Version, buildinfo.Commit, buildinfo.Date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(newScanCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newDriftCmd())
	root.AddCommand(newMatrixCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
