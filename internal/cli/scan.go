package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mtb2597/repo-intel-agent/pkg/extract"
	"github.com/mtb2597/repo-intel-agent/pkg/scan"
	"github.com/mtb2597/repo-intel-agent/pkg/store"
)

func newScanCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan <repository>...",
		Short: "Scan repositories for declared build dependencies",
		Long: `Scan acquires build descriptor files from each repository reference
(a GitHub URL or a local directory), resolves declared dependency
versions, and prints a per-repository summary. Repositories are
scanned concurrently; one failure never aborts the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			results := make(chan *extract.Set, len(args))
			sink := scan.WithSink(func(_ context.Context, set *extract.Set) {
				results <- set
			})

			st := store.New()
			scanner, c, err := newScanner(ctx, st, cfg, logger, sink)
			if err != nil {
				return err
			}
			defer c.Close()

			p := newProgress(logger)
			done := make(chan *scan.Batch, 1)
			go func() { done <- scanner.Scan(ctx, args) }()

			var batch *scan.Batch
			if asJSON {
				batch = <-done
				return json.NewEncoder(os.Stdout).Encode(batch)
			}

			model := newScanModel(len(args), results, done, cancel)
			final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stderr)).Run()
			if err == nil {
				batch = final.(scanModel).batch
			}
			if batch == nil {
				// Cancelled mid-scan; tasks still deliver failure sets.
				batch = <-done
			}

			ok := 0
			for _, set := range batch.Results {
				if set.Success {
					ok++
					printSuccess("%s: %d dependencies", set.Repo, len(set.Dependencies))
					if set.Toolchain != "" {
						printDetail("toolchain: %s", set.Toolchain)
					}
				} else {
					printError("%s: %s", set.Repo, set.Reason)
				}
			}
			p.done(fmt.Sprintf("Scanned %d repositories, %d succeeded", len(batch.Results), ok))
			printDetail("batch: %s", batch.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full batch as JSON")
	return cmd
}
