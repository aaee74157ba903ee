package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"stockpile/internal/classify"
	"stockpile/internal/config"
	"stockpile/internal/inventory"
	"stockpile/internal/logging"
	"stockpile/internal/relocate"
	"stockpile/internal/scan"
)

var (
	scanAccepted = color.New(color.FgGreen)
	scanNotice   = color.New(color.FgYellow)
	scanProblem  = color.New(color.FgRed)
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Interactive batch relocation via barcode scanner",
		Long: "Read scanner tokens from stdin and build a relocation queue.\n\n" +
			"Scan an item identifier, then its new location, then optionally a\n" +
			"sub-location. Scanning the next identifier or the DONE code closes the\n" +
			"entry. Control words: queue, cancel <ja-id>, clear, commit, quit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *inventory.Store) error {
				return runScanLoop(cmd, cfg, store)
			})
		},
	}
}

func runScanLoop(cmd *cobra.Command, cfg *config.Config, store *inventory.Store) error {
	out := cmd.OutOrStdout()
	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	if !interactive {
		color.NoColor = true
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		logger = logging.Nop()
	}

	session := scan.NewSession(classify.New(classify.RulesFromConfig(cfg)), store)
	validator := relocate.NewValidator(store)
	executor := relocate.NewExecutor(store, logger)

	if interactive {
		fmt.Fprintln(out, "Scan items and locations; type commit to apply, quit to abandon.")
	}

	reader := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			fmt.Fprintf(out, "[%s, %d queued] > ", session.State(), session.Len())
		}
		if !reader.Scan() {
			break
		}
		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}

		word, rest, _ := strings.Cut(line, " ")
		switch strings.ToLower(word) {
		case "quit", "exit":
			if session.Len() > 0 {
				scanNotice.Fprintf(out, "Abandoning %d queued moves\n", session.Len())
			}
			return nil
		case "queue":
			printQueue(out, session)
			continue
		case "cancel":
			target := strings.TrimSpace(rest)
			if session.Cancel(target) {
				scanNotice.Fprintf(out, "Cancelled %s\n", target)
			} else {
				scanProblem.Fprintf(out, "%s is not queued\n", target)
			}
			continue
		case "clear":
			session.Clear()
			scanNotice.Fprintln(out, "Queue cleared")
			continue
		case "commit":
			done, err := commitQueue(cmd, session, validator, executor)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			continue
		}

		feedback := session.Feed(cmd.Context(), line)
		printFeedback(out, feedback)
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("read scanner input: %w", err)
	}

	// EOF on a non-interactive stream commits the accumulated queue.
	if !interactive && session.Len() > 0 {
		_, err := commitQueue(cmd, session, validator, executor)
		return err
	}
	return nil
}

func printFeedback(out io.Writer, fb scan.Feedback) {
	switch {
	case fb.Finalized != nil:
		entry := fb.Finalized
		verb := "Queued"
		if fb.Replaced {
			verb = "Requeued"
		}
		scanAccepted.Fprintf(out, "%s %s -> %s\n", verb, entry.JAID, renderPlace(entry.NewLocation, entry.NewSubLocation))
		if fb.Accepted && fb.Message != "" {
			scanNotice.Fprintln(out, fb.Message)
		}
	case fb.Accepted:
		if fb.Message != "" {
			scanNotice.Fprintln(out, fb.Message)
		}
	default:
		scanProblem.Fprintln(out, fb.Message)
	}
}

func printQueue(out io.Writer, session *scan.Session) {
	queue := session.Queue()
	if len(queue) == 0 {
		fmt.Fprintln(out, "Queue is empty")
		return
	}
	rows := make([][]string, 0, len(queue))
	for _, req := range queue {
		rows = append(rows, []string{req.JAID, renderPlace(req.NewLocation, req.NewSubLocation)})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "New Location"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
}

// commitQueue validates and, when clean, executes the queue. Validation
// problems leave the queue intact so the operator can cancel or rescan the
// offending entries.
func commitQueue(cmd *cobra.Command, session *scan.Session, validator *relocate.Validator, executor *relocate.Executor) (bool, error) {
	out := cmd.OutOrStdout()
	if session.Len() == 0 {
		fmt.Fprintln(out, "Nothing to commit")
		return false, nil
	}

	plan, err := validator.Validate(cmd.Context(), session.Queue())
	if err != nil {
		return false, err
	}
	if len(plan.Problems) > 0 {
		scanProblem.Fprintf(out, "%d entries cannot be applied:\n", len(plan.Problems))
		for _, problem := range plan.Problems {
			scanProblem.Fprintf(out, "  %s: %s\n", problem.JAID, problem.Reason)
		}
		fmt.Fprintln(out, "Fix with cancel/rescan, then commit again")
		return false, nil
	}

	result := executor.Execute(cmd.Context(), plan)
	for _, outcome := range result.Succeeded {
		scanAccepted.Fprintf(out, "Moved %s to %s\n", outcome.Record.JAID, renderPlacement(outcome.Record))
	}
	for _, failure := range result.Failed {
		scanProblem.Fprintf(out, "Failed %s: %s\n", failure.JAID, failure.Error)
	}
	fmt.Fprintf(out, "Batch %s: %d moved, %d failed\n", result.BatchID, len(result.Succeeded), len(result.Failed))

	if len(result.Failed) == 0 {
		session.Clear()
		return true, nil
	}

	// Keep only the failed entries queued for another attempt.
	failed := make(map[string]bool, len(result.Failed))
	for _, failure := range result.Failed {
		failed[failure.JAID] = true
	}
	for _, req := range session.Queue() {
		if !failed[req.JAID] {
			session.Cancel(req.JAID)
		}
	}
	return false, nil
}
