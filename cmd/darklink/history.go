package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/darklink/internal/config"
	"github.com/nao1215/darklink/internal/database"
	"github.com/nao1215/darklink/internal/report"
)

// defaultHistoryLimit is the number of rows shown without --limit.
const defaultHistoryLimit = 20

// ErrNoHistory is returned when no run has been stored yet.
var ErrNoHistory = errors.New("no scan history found (run 'darklink scan' first)")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show stored scan runs",
		Long: `History shows the runs stored by 'darklink scan'.

Without arguments it lists the latest runs. With a URL it lists every
stored check of that URL, newest first, with the rules that appeared or
disappeared since the check before it. With --run it prints one stored
run as a report.

Examples:
  # List the latest runs
  darklink history

  # Show how a page changed over time
  darklink history https://www.example.com/

  # Print run 12 again
  darklink history --run 12`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of entries (0 = all)")
	cmd.Flags().Int64("run", 0, "Print the stored run with this ID")
	cmd.Flags().Bool("json", false, "Output JSON")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data directory)")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := historyDBDir(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); os.IsNotExist(err) {
		return ErrNoHistory
	}
	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case runID != 0:
		summary, err := db.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		if summary == nil {
			return fmt.Errorf("run %d not found", runID)
		}
		if asJSON {
			return report.NewJSONWriter(out, report.WithPrettyPrint()).Write(summary)
		}
		return report.NewSimpleWriter(out, report.WithVerbose(getVerboseFlag(cmd))).Write(summary)

	case len(args) == 1:
		// All records, so the oldest shown check finds its nearest
		// reachable predecessor.
		records, err := db.URLHistory(ctx, args[0], 0)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no stored checks for %s", args[0])
		}
		changes := database.Changes(records)
		if limit > 0 && len(records) > limit {
			records, changes = records[:limit], changes[:limit]
		}
		if asJSON {
			return writeJSON(out, urlHistoryJSON(records, changes))
		}
		return printURLHistory(out, records, changes)

	default:
		runs, err := db.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, runs)
		}
		return printRuns(out, runs)
	}
}

// historyDBDir resolves the database directory: flag, DARKLINK_DB_DIR, then
// the XDG data directory.
func historyDBDir(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("db-dir") {
		return cmd.Flags().GetString("db-dir")
	}
	cfg := config.NewConfig()
	if err := cfg.LoadEnv(); err != nil {
		return "", err
	}
	return cfg.DBDir, nil
}

func printRuns(out io.Writer, runs []database.RunRecord) error {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs stored.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tURLS\tREACHABLE\tFAILED\tDARK LINKS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Total, r.Succeeded, r.Failed, r.DarkLinks)
	}
	return tw.Flush()
}

func printURLHistory(out io.Writer, records []database.URLRecord, changes []database.Change) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCHECKED\tSTATUS\tCOVERAGE\tMATCHED RULES\tCHANGES")
	for i, rec := range records {
		r := rec.Result
		matched := strings.Join(r.MatchedRules, ", ")
		if matched == "" {
			matched = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			rec.RunID, r.CheckedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status, r.Coverage, matched, describeChange(changes[i]))
	}
	return tw.Flush()
}

// describeChange renders a change as "+new -gone body changed", or
// "unreachable" for a failed check.
func describeChange(c database.Change) string {
	if c.Empty() {
		return "-"
	}
	if c.Unreachable {
		return "unreachable"
	}
	var parts []string
	for _, r := range c.Added {
		parts = append(parts, "+"+r)
	}
	for _, r := range c.Removed {
		parts = append(parts, "-"+r)
	}
	if c.BodyChanged {
		parts = append(parts, "body changed")
	}
	return strings.Join(parts, " ")
}

type urlHistoryEntry struct {
	database.URLRecord
	Change database.Change `json:"change"`
}

func urlHistoryJSON(records []database.URLRecord, changes []database.Change) []urlHistoryEntry {
	entries := make([]urlHistoryEntry, len(records))
	for i, rec := range records {
		entries[i] = urlHistoryEntry{URLRecord: rec, Change: changes[i]}
	}
	return entries
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
