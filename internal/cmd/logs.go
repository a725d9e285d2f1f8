package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/knockout/internal/config"
	"github.com/Iron-Ham/knockout/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View tournament logs",
	Long: `View and filter the knockout log file.

By default, shows the last 50 entries of the most recent run.

Examples:
  # Everything the last run logged about match 3
  knockout logs --match 3 -n 0

  # Warnings and errors across all runs
  knockout logs --all-runs --level warn

  # Entries of one round as JSON lines
  knockout logs --round 2 --json`,
	RunE: runLogs,
}

var (
	logsRunID   string
	logsAllRuns bool
	logsMatch   int
	logsRound   int
	logsTail    int
	logsLevel   string
	logsGrep    string
	logsJSON    bool
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVarP(&logsRunID, "run", "r", "", "Run ID (default: most recent)")
	logsCmd.Flags().BoolVar(&logsAllRuns, "all-runs", false, "Show entries from every run")
	logsCmd.Flags().IntVar(&logsMatch, "match", 0, "Only entries about this match")
	logsCmd.Flags().IntVar(&logsRound, "round", 0, "Only entries about this round")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Only entries whose message contains this text")
	logsCmd.Flags().BoolVar(&logsJSON, "json", false, "Print entries as JSON lines")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	path := filepath.Join(cfg.Logging.Dir, logging.FileName)

	entries, err := logging.ReadEntries(path)
	if err != nil {
		return err
	}

	filter := logging.Filter{
		Level:           logsLevel,
		RunID:           logsRunID,
		MatchID:         logsMatch,
		Round:           logsRound,
		MessageContains: logsGrep,
	}
	if filter.RunID == "" && !logsAllRuns {
		filter.RunID = latestRun(entries)
	}
	entries = filter.Apply(entries)

	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No matching log entries")
		return nil
	}
	if logsJSON {
		return writeJSONEntries(out, entries)
	}
	return logging.WriteText(out, entries)
}

// latestRun returns the run ID of the newest entry that has one.
func latestRun(entries []logging.Entry) string {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].RunID != "" {
			return entries[i].RunID
		}
	}
	return ""
}

func writeJSONEntries(w io.Writer, entries []logging.Entry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to encode log entry: %w", err)
		}
	}
	return nil
}
