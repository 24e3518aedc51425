package main

import (
	"time"

	"github.com/spf13/cobra"

	"gallerylinker/internal/history"
	"gallerylinker/internal/linker"
)

func newLinkScenesCommand(ctx *commandContext) *cobra.Command {
	var (
		strategy string
		dryRun   bool
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "link-scenes",
		Short: "Link scenes to galleries by path, name, or date heuristics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			gateway, err := ctx.ensureGateway()
			if err != nil {
				return err
			}

			opts := linker.FromConfig(cfg)
			opts.DryRun = dryRun
			if cmd.Flags().Changed("strategy") {
				opts.SceneStrategy = strategy
			}

			lock, err := ctx.acquireRunLock(dryRun)
			if err != nil {
				return err
			}
			if lock != nil {
				defer lock.Release()
			}

			started := time.Now().UTC()
			pass := linker.NewSceneLinker(gateway, logger, opts)
			report, err := pass.Run(cmd.Context())
			if err != nil {
				return err
			}

			summary := report.Summary()
			ctx.recordRun(cmd.Context(), history.Run{
				Mode:       "scenes",
				Strategy:   opts.SceneStrategy,
				DryRun:     dryRun,
				StartedAt:  started,
				FinishedAt: time.Now().UTC(),
				Processed:  summary.Processed,
				Linked:     summary.Linked,
				Errors:     summary.Errors,
				Skipped:    summary.Skipped,
			})

			if jsonOut {
				return writeJSON(cmd, report)
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Matching strategy: path_proximity, name_similarity, directory_match, date_proximity, add_additional")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute links without writing them")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the full report as JSON")
	return cmd
}
