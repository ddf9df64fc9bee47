package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/traceprint/traceprint/internal/config"
	"github.com/traceprint/traceprint/internal/database"
	"github.com/traceprint/traceprint/internal/report"
)

// NewHistoryCmd creates the history command.
// This command lists scan results previously saved to the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [handle]",
		Short: "Show saved scan history",
		Long: `History lists scan results previously saved to the database.

Without arguments it lists every handle that has at least one saved scan.
With a handle it lists that handle's scans, newest first, with the risk
level and score recorded at scan time. When at least two scans exist the
listing ends with what changed since the previous scan. Use --show to
print one stored report in full.

Scans are saved automatically unless 'scan' was run with --no-save.

Examples:
  # List all scanned handles
  traceprint history

  # List saved scans for a handle
  traceprint history alice

  # Print a stored report in full (IDs come from the listing)
  traceprint history --show 5

  # Print a stored report as JSON
  traceprint history --show 5 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("show", "s", 0,
		"Print the stored report with this ID in full")
	cmd.Flags().BoolP("json", "j", false,
		"Output the stored report in JSON format (only with --show)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory for the scan-history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	// Never create the database here: an empty history is not a reason
	// to leave a fresh database file behind.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return errors.New("no scan history found (run 'traceprint scan' first)")
	}
	defer db.Close()

	if showID > 0 {
		return showStoredReport(cmd, db, showID, jsonOutput)
	}

	if len(args) == 0 {
		return listHandles(cmd, db)
	}

	return listHandleHistory(cmd, db, args[0])
}

// showStoredReport prints one stored report in full.
func showStoredReport(cmd *cobra.Command, db *database.ScanDB, id int64, jsonOutput bool) error {
	scanReport, err := db.GetScanReportByID(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if scanReport == nil {
		return fmt.Errorf("no stored report with ID %d (use 'traceprint history <handle>' to list IDs)", id)
	}

	if jsonOutput {
		writer := report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
		_, err := writer.Write(scanReport)
		return err
	}

	writer := report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(true))
	_, err = writer.Write(scanReport)
	return err
}

// listHandles prints every handle with saved scans.
func listHandles(cmd *cobra.Command, db *database.ScanDB) error {
	handles, err := db.ListScannedHandles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list handles: %w", err)
	}

	if len(handles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved scans.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scanned handles (%d):\n", len(handles))
	for _, handle := range handles {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", handle)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'traceprint history <handle>' to list a handle's scans.")

	return nil
}

// listHandleHistory prints the saved scans for one handle, newest first.
func listHandleHistory(cmd *cobra.Command, db *database.ScanDB, handle string) error {
	metas, err := db.GetScanHistoryWithMetadata(cmd.Context(), handle)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(metas) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No saved scans for %s.\n", handle)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scan history for %s (%d scans):\n\n", handle, len(metas))
	fmt.Fprintf(cmd.OutOrStdout(), "  %-6s %-20s %-10s %-8s %s\n", "ID", "Date", "Risk", "Score", "Platforms")
	for _, meta := range metas {
		date := meta.Timestamp.Format(time.DateTime)
		if meta.Timestamp.IsZero() {
			date = "unknown"
		}
		risk := meta.RiskSummary.Level
		if risk == "" {
			risk = "-"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %-6d %-20s %-10s %-8.1f %d\n",
			meta.ID, date, risk, meta.RiskSummary.Score, meta.RiskSummary.PlatformsFound)
	}
	if len(metas) >= 2 {
		printExposureDrift(cmd, db, metas[0], metas[1])
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'traceprint history --show <id>' to print a stored report in full.")

	return nil
}

// printExposureDrift prints what changed between the two most recent scans:
// platforms that appeared or disappeared and the score movement. Best
// effort: if either stored report cannot be loaded the section is skipped.
func printExposureDrift(cmd *cobra.Command, db *database.ScanDB, latest, previous database.ScanReportMetadata) {
	newest, err := db.GetScanReportByID(cmd.Context(), latest.ID)
	if err != nil || newest == nil || newest.Exposure == nil {
		return
	}
	older, err := db.GetScanReportByID(cmd.Context(), previous.ID)
	if err != nil || older == nil || older.Exposure == nil {
		return
	}

	appeared := platformDiff(newest.Exposure.PlatformsFound, older.Exposure.PlatformsFound)
	disappeared := platformDiff(older.Exposure.PlatformsFound, newest.Exposure.PlatformsFound)

	fmt.Fprintf(cmd.OutOrStdout(), "\nChange since %s:\n", previous.Timestamp.Format(time.DateTime))
	fmt.Fprintf(cmd.OutOrStdout(), "  score: %.1f -> %.1f\n", previous.RiskSummary.Score, latest.RiskSummary.Score)
	if len(appeared) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  newly found: %s\n", strings.Join(appeared, ", "))
	}
	if len(disappeared) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  no longer found: %s\n", strings.Join(disappeared, ", "))
	}
	if len(appeared) == 0 && len(disappeared) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "  platform exposure unchanged")
	}
}

// platformDiff returns the platforms in a that are not in b, preserving
// a's order.
func platformDiff(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, p := range b {
		inB[p] = struct{}{}
	}
	var diff []string
	for _, p := range a {
		if _, ok := inB[p]; !ok {
			diff = append(diff, p)
		}
	}
	return diff
}
