package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stockpile/internal/api"
	"stockpile/internal/config"
	"stockpile/internal/inventory"
)

func newMoveCommand(ctx *commandContext) *cobra.Command {
	moveCmd := &cobra.Command{
		Use:   "move <ja-id> <location> [sub-location]",
		Short: "Relocate a single item",
		Long: "Relocate a single item immediately. Omitting the sub-location clears any\n" +
			"previously recorded sub-location, since the item demonstrably left it.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *inventory.Store) error {
				subLocation := ""
				if len(args) == 3 {
					subLocation = args[2]
				}
				record, err := store.UpdateLocation(cmd.Context(), args[0], args[1], subLocation, "")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", record.JAID, renderPlacement(record))
				return nil
			})
		},
	}

	moveCmd.AddCommand(newMoveBatchCommand(ctx))
	return moveCmd
}

func newMoveBatchCommand(ctx *commandContext) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Submit a relocation batch to the daemon",
		Long: "Read batch entries (one per line: JA-ID LOCATION [SUB-LOCATION]) from a\n" +
			"file or stdin and submit them to the daemon. The daemon validates the whole\n" +
			"batch first and refuses to execute any entry when problems exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var input io.Reader = cmd.InOrStdin()
			if trimmed := strings.TrimSpace(filePath); trimmed != "" {
				f, err := os.Open(trimmed)
				if err != nil {
					return fmt.Errorf("open batch file: %w", err)
				}
				defer f.Close()
				input = f
			}

			entries, err := parseBatchEntries(input)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no batch entries provided")
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			result, validation, err := client.ExecuteMoves(cmd.Context(), api.BatchMoveRequest{Entries: entries})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if validation != nil {
				scanProblem.Fprintf(out, "%d entries cannot be applied:\n", len(validation.Problems))
				for _, problem := range validation.Problems {
					scanProblem.Fprintf(out, "  %s: %s\n", problem.JAID, problem.Reason)
				}
				return fmt.Errorf("batch rejected by validation")
			}

			for _, item := range result.Succeeded {
				scanAccepted.Fprintf(out, "Moved %s to %s\n", item.JAID, renderPlace(item.Location, item.SubLocation))
			}
			for _, failure := range result.Failed {
				scanProblem.Fprintf(out, "Failed %s: %s\n", failure.JAID, failure.Error)
			}
			fmt.Fprintf(out, "Batch %s: %d moved, %d failed\n", result.BatchID, len(result.Succeeded), len(result.Failed))
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d entries failed", len(result.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Batch file (default: stdin)")
	return cmd
}

// parseBatchEntries reads one entry per line: identifier, location, and an
// optional sub-location that may contain spaces. Blank lines and #-comments
// are skipped.
func parseBatchEntries(input io.Reader) ([]api.MoveRequest, error) {
	var entries []api.MoveRequest
	scanner := bufio.NewScanner(input)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: need at least JA-ID and location: %q", lineNo, line)
		}
		entries = append(entries, api.MoveRequest{
			JAID:           fields[0],
			NewLocation:    fields[1],
			NewSubLocation: strings.Join(fields[2:], " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch entries: %w", err)
	}
	return entries, nil
}
