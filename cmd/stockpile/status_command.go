package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockpile/internal/config"
	"stockpile/internal/inventory"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and inventory status",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err == nil {
				fmt.Fprintf(out, "Daemon:          running (pid %d)\n", status.PID)
				fmt.Fprintf(out, "Database:        %s\n", status.DatabasePath)
				fmt.Fprintf(out, "Next identifier: %s\n", status.NextIdentifier)
				fmt.Fprintf(out, "Records:         %d active, %d superseded\n",
					status.Inventory.Active, status.Inventory.Inactive)
				fmt.Fprintf(out, "Moves logged:    %d\n", status.Inventory.Moves)
				return nil
			}

			// No daemon; report against the database directly.
			fmt.Fprintln(out, "Daemon:          not running")
			return ctx.withStore(func(_ *config.Config, store *inventory.Store) error {
				summary, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				next, err := store.PeekNextIdentifier(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Database:        %s\n", store.Path())
				fmt.Fprintf(out, "Next identifier: %s\n", next)
				fmt.Fprintf(out, "Records:         %d active, %d superseded\n", summary.Active, summary.Inactive)
				fmt.Fprintf(out, "Moves logged:    %d\n", summary.Moves)
				return nil
			})
		},
	}
}
