package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtb2597/repo-intel-agent/pkg/compare"
	"github.com/mtb2597/repo-intel-agent/pkg/store"
)

// scanAndEngine runs a one-shot scan over repos and returns a
// comparison engine over the results.
func scanAndEngine(cmd *cobra.Command, repos []string) (*compare.Engine, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	st := store.New()
	scanner, c, err := newScanner(ctx, st, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	sp := newSpinner(ctx, fmt.Sprintf("Scanning %d repositories...", len(repos)))
	sp.Start()
	batch := scanner.Scan(ctx, repos)
	sp.Stop()

	for _, set := range batch.Results {
		if !set.Success {
			printWarning("%s: %s", set.Repo, set.Reason)
		}
	}
	return compare.New(st), nil
}

func newCompareCmd() *cobra.Command {
	var repos []string

	cmd := &cobra.Command{
		Use:   "compare <group:artifact>",
		Short: "Compare one dependency's version across repositories",
		Long: `Compare scans the given repositories and reports, per repository, the
highest resolved version of the coordinate, NOT_FOUND when the
dependency is not declared, or UNKNOWN when it is declared without a
usable version.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, artifact, err := compare.ParseCoordinate(args[0])
			if err != nil {
				return err
			}
			engine, err := scanAndEngine(cmd, repos)
			if err != nil {
				return err
			}
			printResultMap(args[0], engine.Single(group, artifact))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&repos, "repos", nil, "repository references to scan")
	_ = cmd.MarkFlagRequired("repos")
	return cmd
}

func newDriftCmd() *cobra.Command {
	var (
		repos []string
		min   string
	)

	cmd := &cobra.Command{
		Use:   "drift <group:artifact>",
		Short: "Report repositories below a minimum version",
		Long: `Drift scans the given repositories and reports only the ones missing
the coordinate (NOT_FOUND) or running strictly below --min (BELOW).
Repositories at or above the threshold are omitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, artifact, err := compare.ParseCoordinate(args[0])
			if err != nil {
				return err
			}
			engine, err := scanAndEngine(cmd, repos)
			if err != nil {
				return err
			}
			drift := engine.Drift(group, artifact, min)
			if len(drift) == 0 {
				printSuccess("No drift: every repository is at or above %s", min)
				return nil
			}
			printResultMap(fmt.Sprintf("%s (min %s)", args[0], min), drift)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&repos, "repos", nil, "repository references to scan")
	cmd.Flags().StringVar(&min, "min", "", "minimum acceptable version")
	_ = cmd.MarkFlagRequired("repos")
	_ = cmd.MarkFlagRequired("min")
	return cmd
}
