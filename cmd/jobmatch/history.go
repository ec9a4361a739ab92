package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent upload attempts from the telemetry database",
	RunE:  runHistory,
}

var (
	historyLimit int
	historyDB    string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of attempts to show")
	historyCmd.Flags().StringVar(&historyDB, "telemetry-db", "", "SQLite telemetry file (overrides JOBMATCH_TELEMETRY_DB)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadClientConfig(configPath, os.Getenv)
	if err != nil {
		return err
	}
	path := cfg.TelemetryDB
	if historyDB != "" {
		path = historyDB
	}
	if path == "" {
		return fmt.Errorf("no telemetry database configured (set --telemetry-db or JOBMATCH_TELEMETRY_DB)")
	}

	store, err := observability.OpenSQLiteStore(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	events, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No upload attempts recorded.")
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tOUTCOME\tKIND\tMETHOD\tDURATION") //nolint:errcheck
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", //nolint:errcheck
			e.Timestamp.Local().Format(time.DateTime),
			e.Outcome,
			dash(string(e.Kind)),
			dash(string(e.ParsingMethod)),
			time.Duration(e.DurationMs)*time.Millisecond,
		)
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
