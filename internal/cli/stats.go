package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garyellow/askhr-go/internal/analytics"
)

func newStatsCmd(a *App) *cobra.Command {
	var (
		entity   string
		byEntity bool
		top      int
		asCSV    bool
	)

	cmd := &cobra.Command{
		Use:   "stats <column>",
		Short: "Count employees by the values of a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			dir := s.engine.Directory
			column := args[0]
			res, err := analytics.NewEngine(dir).Aggregate(
				analytics.Filter(dir.Records(), entity),
				column,
				analytics.Options{
					Bins:     analytics.DefaultBins(column),
					Top:      top,
					ByEntity: byEntity,
					Entity:   entity,
				},
			)
			if err != nil {
				return err
			}

			if asCSV {
				return analytics.WriteCSV(cmd.OutOrStdout(), res)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), formatResult(res))
			return err
		},
	}

	cmd.Flags().StringVar(&entity, "in", "", "restrict to one entity")
	cmd.Flags().BoolVar(&byEntity, "by-entity", false, "cross-tabulate against entity")
	cmd.Flags().IntVar(&top, "top", 0, "keep only the N largest categories")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}
