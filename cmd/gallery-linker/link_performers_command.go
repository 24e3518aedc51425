package main

import (
	"time"

	"github.com/spf13/cobra"

	"gallerylinker/internal/history"
	"gallerylinker/internal/linker"
)

func newLinkPerformersCommand(ctx *commandContext) *cobra.Command {
	var (
		createMissing bool
		useStashBox   bool
		dryRun        bool
		jsonOut       bool
	)

	cmd := &cobra.Command{
		Use:   "link-performers",
		Short: "Link galleries to performers by scene links and name matching",
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
			if cmd.Flags().Changed("create-missing") {
				opts.CreateMissing = createMissing
			}
			if cmd.Flags().Changed("use-stashbox") {
				opts.UseStashBox = useStashBox
			}

			lock, err := ctx.acquireRunLock(dryRun)
			if err != nil {
				return err
			}
			if lock != nil {
				defer lock.Release()
			}

			sb, err := ctx.stashBoxClient()
			if err != nil {
				return err
			}

			started := time.Now().UTC()
			pass := linker.NewPerformerLinker(gateway, sb, logger, opts)
			report, err := pass.Run(cmd.Context())
			if err != nil {
				return err
			}

			summary := report.Summary()
			ctx.recordRun(cmd.Context(), history.Run{
				Mode:       "performers",
				DryRun:     dryRun,
				StartedAt:  started,
				FinishedAt: time.Now().UTC(),
				Processed:  summary.Processed,
				Linked:     summary.Linked,
				Created:    summary.Created,
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

	cmd.Flags().BoolVar(&createMissing, "create-missing", true, "Create performers that cannot be matched")
	cmd.Flags().BoolVar(&useStashBox, "use-stashbox", false, "Consult the stash-box registry for candidates")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute links without writing them")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the full report as JSON")
	return cmd
}
