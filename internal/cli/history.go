package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ibeckermayer/fridgeverify/internal/store"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:     "history [run-id]",
	Aliases: []string{"ls"},
	Short:   "Show recent verification runs",
	Long: `List recent verification runs, or show one run with its dialog messages.

Examples:
  fridgeverify history            # Last 20 runs
  fridgeverify history -n 5
  fridgeverify history <run-id>   # One run in detail`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagHistoryLimit <= 0 {
			return fmt.Errorf("--limit must be positive")
		}

		cfg, _, logger, err := setup()
		if err != nil {
			return err
		}

		a := newApp(cfg, logger)
		defer a.Close()
		history := a.History()
		if history == nil {
			return fmt.Errorf("run history is unavailable (check history.enabled and history.db_path)")
		}

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			run, err := history.GetRun(args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no run with id %s", args[0])
			}
			if err != nil {
				return err
			}
			dialogs, err := history.Dialogs(run.ID)
			if err != nil {
				return err
			}
			return printRun(out, run, dialogs)
		}

		runs, err := history.ListRuns(flagHistoryLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded yet")
			return nil
		}
		return printRuns(out, runs)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of runs to show")
}

func printRuns(out io.Writer, runs []store.Run) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tOUTCOME\tDIALOGS\tDURATION\tDETAIL")
	for _, r := range runs {
		detail := r.ScreenshotPath
		if !r.Passed() {
			detail = r.FailureKind + ": " + r.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Outcome,
			r.DialogCount,
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
			detail,
		)
	}
	return w.Flush()
}

func printRun(out io.Writer, r *store.Run, dialogs []string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Run:\t%s\n", r.ID)
	fmt.Fprintf(w, "URL:\t%s\n", r.URL)
	fmt.Fprintf(w, "Started:\t%s\n", r.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Duration:\t%s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(w, "Outcome:\t%s\n", r.Outcome)
	if !r.Passed() {
		fmt.Fprintf(w, "Failure:\t%s: %s\n", r.FailureKind, r.Error)
	}
	if r.ScreenshotPath != "" {
		fmt.Fprintf(w, "Screenshot:\t%s (%d bytes)\n", r.ScreenshotPath, r.ScreenshotBytes)
	}
	if len(dialogs) == 0 {
		fmt.Fprintf(w, "Dialogs:\tnone\n")
	}
	for i, m := range dialogs {
		fmt.Fprintf(w, "Dialog %d:\t%s\n", i+1, m)
	}
	return w.Flush()
}
