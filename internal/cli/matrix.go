package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newMatrixCmd() *cobra.Command {
	var repos []string

	cmd := &cobra.Command{
		Use:   "matrix <group:artifact>[,<group:artifact>...]",
		Short: "Cross-repository version matrix for several dependencies",
		Long: `Matrix scans the given repositories and prints one row per coordinate
with a column per repository. Malformed coordinates are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var coords []string
			for _, c := range strings.Split(args[0], ",") {
				if c = strings.TrimSpace(c); c != "" {
					coords = append(coords, c)
				}
			}
			if len(coords) == 0 {
				return fmt.Errorf("no coordinates given")
			}

			engine, err := scanAndEngine(cmd, repos)
			if err != nil {
				return err
			}
			matrix := engine.Matrix(coords)
			if len(matrix) == 0 {
				printWarning("No valid coordinates in %q", args[0])
				return nil
			}

			var names []string
			for _, row := range matrix {
				for repo := range row {
					names = append(names, repo)
				}
				break
			}
			sort.Strings(names)

			headers := append([]string{"coordinate"}, names...)
			var rows [][]string
			for _, coord := range coords {
				row, ok := matrix[coord]
				if !ok {
					continue
				}
				cells := []string{coord}
				for _, repo := range names {
					cells = append(cells, row[repo])
				}
				rows = append(rows, cells)
			}
			fmt.Println(renderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&repos, "repos", nil, "repository references to scan")
	_ = cmd.MarkFlagRequired("repos")
	return cmd
}
