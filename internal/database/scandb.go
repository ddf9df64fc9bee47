package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/traceprint/traceprint/internal/model"
)

// ScanDB provides SQLite-based storage for scan reports and platform hits.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all handles rather
// than separate files per handle. This keeps cross-handle history queries
// trivial and simplifies backup/restore operations.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ScanDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, "traceprint.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		// Check if database file exists
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		// Ensure directory exists
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite doesn't benefit from multiple connections for writes,
	// but multiple readers can improve performance
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScanDB) createTables() error {
	schema := `
	-- Scan reports store complete scan results as JSON
	CREATE TABLE IF NOT EXISTS scan_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		handle TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		risk_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_handle ON scan_reports(handle);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON scan_reports(timestamp);

	-- Platform hits track where a handle was found, one row per sighting
	CREATE TABLE IF NOT EXISTS platform_hits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		handle TEXT NOT NULL,
		platform TEXT NOT NULL,
		profile_url TEXT,
		status TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_hits_handle ON platform_hits(handle);
	CREATE INDEX IF NOT EXISTS idx_hits_platform ON platform_hits(platform);
	CREATE INDEX IF NOT EXISTS idx_hits_timestamp ON platform_hits(timestamp);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// RiskSummary is the compact risk digest stored next to each report.
// It allows history listings without deserializing full reports.
type RiskSummary struct {
	// Level is the ensemble risk level string.
	Level string `json:"level"`

	// Score is the ensemble risk score.
	Score float64 `json:"score"`

	// PlatformsFound counts platforms where the handle was found.
	PlatformsFound int `json:"platforms_found"`
}

// summarize builds the risk digest from a report, tolerating partially
// filled reports from failed scans.
func summarize(report *model.ScanReport) RiskSummary {
	var summary RiskSummary
	if report.Risk != nil {
		summary.Level = report.Risk.Level.String()
		summary.Score = report.Risk.Score
	}
	if report.Exposure != nil {
		summary.PlatformsFound = len(report.Exposure.PlatformsFound)
	}
	return summary
}

// SaveScanReport saves a complete scan report as JSON, along with one
// platform hit row per platform where the handle was found.
//
// Design decision: Hit rows are written in the same transaction as the
// report so history queries never observe a report without its hits.
func (sdb *ScanDB) SaveScanReport(ctx context.Context, report *model.ScanReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	riskJSON, _ := json.Marshal(summarize(report)) //nolint:errcheck,errchkjson // RiskSummary is a simple struct; Marshal won't fail

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scan_reports (handle, report_json, risk_summary) VALUES (?, ?, ?)`,
		report.Handle,
		string(reportJSON),
		string(riskJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	for _, result := range report.ProbeResults {
		if !result.Status.Found() {
			continue
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO platform_hits (handle, platform, profile_url, status) VALUES (?, ?, ?, ?)`,
			report.Handle,
			result.Platform,
			result.ProfileURL,
			string(result.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to save platform hit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scan report: %w", err)
	}

	return nil
}

// GetLatestScanReport retrieves the most recent scan report for a handle.
// Returns nil without error when the handle has never been scanned.
func (sdb *ScanDB) GetLatestScanReport(ctx context.Context, handle string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE handle = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query, handle).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan report: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListScannedHandles returns every handle with at least one stored report.
func (sdb *ScanDB) ListScannedHandles(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT handle FROM scan_reports
	ORDER BY handle
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list handles: %w", err)
	}
	defer rows.Close()

	var handles []string
	for rows.Next() {
		var handle string
		if err := rows.Scan(&handle); err != nil {
			return nil, fmt.Errorf("failed to scan handle: %w", err)
		}
		handles = append(handles, handle)
	}

	return handles, rows.Err()
}

// GetScanHistory retrieves all scan reports for a handle, newest first.
func (sdb *ScanDB) GetScanHistory(ctx context.Context, handle string) ([]*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE handle = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var reports []*model.ScanReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.ScanReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// ScanReportMetadata contains summary information about a scan report.
// This is used for displaying scan history without loading the full report.
type ScanReportMetadata struct {
	// ID is the unique identifier of the scan report in the database.
	ID int64

	// Handle is the scanned username or email address.
	Handle string

	// Timestamp is when the scan was performed.
	Timestamp time.Time

	// RiskSummary is the stored risk digest.
	RiskSummary RiskSummary
}

// GetScanHistoryWithMetadata retrieves scan report metadata for a handle.
// This is more efficient than GetScanHistory when only metadata is needed.
func (sdb *ScanDB) GetScanHistoryWithMetadata(ctx context.Context, handle string) ([]ScanReportMetadata, error) {
	query := `
	SELECT id, handle, timestamp, risk_summary
	FROM scan_reports
	WHERE handle = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var results []ScanReportMetadata
	for rows.Next() {
		var meta ScanReportMetadata
		var timestamp string
		var riskJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Handle, &timestamp, &riskJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)

		if riskJSON.Valid && riskJSON.String != "" {
			if err := json.Unmarshal([]byte(riskJSON.String), &meta.RiskSummary); err != nil {
				meta.RiskSummary = RiskSummary{}
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetScanReportByID retrieves a scan report by its database ID.
// Returns nil without error when no report has that ID.
func (sdb *ScanDB) GetScanReportByID(ctx context.Context, id int64) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE id = ?
	`

	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan report: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// HasRecentScan checks whether the handle was scanned within the given
// duration. Useful for skipping redundant rescans.
func (sdb *ScanDB) HasRecentScan(ctx context.Context, handle string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM scan_reports
	WHERE handle = ? AND timestamp > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	err := sdb.db.QueryRowContext(ctx, query, handle, modifier).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recent scan: %w", err)
	}

	return count > 0, nil
}

// PlatformHit is one stored sighting of a handle on a platform.
type PlatformHit struct {
	// ID is the unique identifier of the hit row.
	ID int64

	// Handle is the scanned username or email address.
	Handle string

	// Platform is the platform the handle was found on.
	Platform string

	// ProfileURL is the URL of the discovered profile.
	ProfileURL string

	// Status is the probe status stored with the hit.
	Status string

	// Timestamp is when the sighting was recorded.
	Timestamp time.Time
}

// QueryPlatformHits queries stored platform hits with optional filters.
// Empty filter values match everything.
func (sdb *ScanDB) QueryPlatformHits(ctx context.Context, handle, platform string) ([]PlatformHit, error) {
	query := `
	SELECT id, handle, platform, profile_url, status, timestamp
	FROM platform_hits
	WHERE 1=1
	`
	args := make([]any, 0)

	if handle != "" {
		query += " AND handle = ?"
		args = append(args, handle)
	}
	if platform != "" {
		query += " AND platform = ?"
		args = append(args, platform)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform hits: %w", err)
	}
	defer rows.Close()

	var results []PlatformHit
	for rows.Next() {
		var hit PlatformHit
		var timestamp string

		err := rows.Scan(
			&hit.ID,
			&hit.Handle,
			&hit.Platform,
			&hit.ProfileURL,
			&hit.Status,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform hit: %w", err)
		}

		hit.Timestamp = parseTimestamp(timestamp)
		results = append(results, hit)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	// Return zero time if no format matches
	// This is a fallback to avoid breaking functionality for edge cases
	return time.Time{}
}
