package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Probe the Stash server and print its version",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := ctx.ensureGateway()
			if err != nil {
				return err
			}
			version, err := gateway.Version(cmd.Context())
			if err != nil {
				return fmt.Errorf("reach stash server: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stash server version %s\n", version)
			return nil
		},
	}
}
