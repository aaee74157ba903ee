package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"stockpile/internal/config"
	"stockpile/internal/inventory"
	"stockpile/internal/logging"
	"stockpile/internal/shorten"
)

func newShortenCommand(ctx *commandContext) *cobra.Command {
	var cutLoss string

	cmd := &cobra.Command{
		Use:   "shorten <ja-id> <new-length>",
		Short: "Record a cut: retire the original and create the remainder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *inventory.Store) error {
				newLength, err := decimal.NewFromString(strings.TrimSpace(args[1]))
				if err != nil {
					return fmt.Errorf("parse new length %q: %w", args[1], err)
				}
				loss := decimal.NullDecimal{}
				if trimmed := strings.TrimSpace(cutLoss); trimmed != "" {
					value, err := decimal.NewFromString(trimmed)
					if err != nil {
						return fmt.Errorf("parse cut loss %q: %w", trimmed, err)
					}
					loss = decimal.NullDecimal{Decimal: value, Valid: true}
				}

				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					logger = logging.Nop()
				}
				engine := shorten.NewEngine(store, logger, cfg.Workflow.AllocationRetries)
				result, err := engine.Shorten(cmd.Context(), args[0], newLength, loss)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Shortened %s to %s\n", result.Original.JAID, newLength)
				fmt.Fprintf(out, "Remainder is %s at %s\n", result.Remainder.JAID, renderPlacement(result.Remainder))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cutLoss, "cut-loss", "", "Material lost to the cut")
	return cmd
}
