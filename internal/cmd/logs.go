package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/ctsort/internal/errors"
	"github.com/Iron-Ham/ctsort/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the debug log",
	Long: `View and filter the structured debug log kept in the output root.

Examples:
  # Show the last 50 entries
  ctsort logs

  # Everything one recording logged at warn or above
  ctsort logs --recording MD1/recording3 --level warn -n 0

  # One run, as JSON
  ctsort logs --run 5f0c... --format json

  # Entries from the last hour mentioning a lock
  ctsort logs --since 1h --grep lock`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsLevel     string
	logsSince     string
	logsGrep      string
	logsRun       string
	logsRecording string
	logsStage     string
	logsFormat    string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter entries whose message contains this text")
	logsCmd.Flags().StringVar(&logsRun, "run", "", "Filter by run ID")
	logsCmd.Flags().StringVar(&logsRecording, "recording", "", "Filter by recording (e.g., MD1/recording3)")
	logsCmd.Flags().StringVar(&logsStage, "stage", "", "Filter by stage")
	logsCmd.Flags().StringVar(&logsFormat, "format", logging.FormatText, "Output format (text/json/csv)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	filter, err := buildLogFilter(time.Now())
	if err != nil {
		return err
	}

	cfg := loadConfigOrDefault()
	entries, err := logging.ReadEntries(cfg.Paths.OutputRoot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "No debug log found.")
			fmt.Fprintln(cmd.OutOrStdout(), "Logs are stored at:", filepath.Join(cfg.Paths.OutputRoot, logging.LogFileName))
			return nil
		}
		return fmt.Errorf("failed to read debug log: %w", err)
	}

	return displayLogs(cmd.OutOrStdout(), entries, filter, logsTail, logsFormat)
}

// buildLogFilter turns the flag values into a logging.Filter.
func buildLogFilter(now time.Time) (logging.Filter, error) {
	f := logging.Filter{
		RunID:     logsRun,
		Recording: logsRecording,
		Stage:     logsStage,
		Contains:  logsGrep,
	}
	if logsLevel != "" {
		f.Level = logging.ParseLevel(logsLevel)
	}
	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return f, fmt.Errorf("invalid duration format: %w", err)
		}
		f.Since = now.Add(-duration)
	}
	switch strings.ToLower(logsFormat) {
	case logging.FormatText, logging.FormatJSON, logging.FormatCSV:
	default:
		return f, fmt.Errorf("invalid format %q (valid: text, json, csv)", logsFormat)
	}
	return f, nil
}

// displayLogs filters entries and writes the last tail of them.
func displayLogs(w io.Writer, entries []logging.Entry, filter logging.Filter, tail int, format string) error {
	entries = logging.FilterEntries(entries, filter)

	// Apply tail limit
	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No matching log entries found.")
		return nil
	}
	return logging.WriteEntries(w, entries, strings.ToLower(format))
}
