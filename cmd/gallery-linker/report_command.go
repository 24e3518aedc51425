package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gallerylinker/internal/linker"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize gallery link coverage across the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := ctx.ensureGateway()
			if err != nil {
				return err
			}

			coverage, err := linker.GenerateCoverage(cmd.Context(), gateway)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, coverage)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				[][]string{
					{"Total galleries", fmt.Sprintf("%d", coverage.TotalGalleries)},
					{"Linked to scenes", fmt.Sprintf("%d", coverage.LinkedToScenes)},
					{"Linked to performers", fmt.Sprintf("%d", coverage.LinkedToPerformers)},
					{"Unlinked", fmt.Sprintf("%d", coverage.Unlinked)},
					{"Coverage", fmt.Sprintf("%.2f%%", coverage.CoveragePercent)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit coverage as JSON")
	return cmd
}
