package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/traceprint/traceprint/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*ScanDB, func()) {
	t.Helper()

	tmpDir := t.TempDir()

	db, err := Open(tmpDir, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return db, cleanup
}

// sampleReport builds a scan report with found and not-found probe results.
func sampleReport(handle string) *model.ScanReport {
	report := model.NewScanReport(handle)
	report.ProbeResults = []model.ProbeResult{
		{Platform: "github", ProfileURL: "https://github.com/" + handle, Status: model.StatusFound},
		{Platform: "twitter", ProfileURL: "https://twitter.com/" + handle, Status: model.StatusFound},
		{Platform: "medium", ProfileURL: "https://medium.com/@" + handle, Status: model.StatusNotFound},
	}
	report.Risk = &model.RiskAssessment{
		Level: model.RiskMedium,
		Score: 41.8,
	}
	exposure := model.NormalizedExposure{
		Handle:         handle,
		PlatformsFound: []string{"github", "twitter"},
	}
	report.Exposure = &exposure
	return report
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()

		dbDir := filepath.Join(tmpDir, "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		// Check that database file exists
		dbPath := filepath.Join(dbDir, "traceprint.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		dbDir := filepath.Join(tmpDir, "does-not-exist")

		opts := Options{
			CreateIfNotExists: false,
			EnableWAL:         true,
		}

		_, err := Open(dbDir, opts)
		if err == nil {
			t.Fatal("expected error when database does not exist and CreateIfNotExists=false")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()

		// Create the database first
		db, err := Open(tmpDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db.Close()

		opts := Options{
			CreateIfNotExists: false,
			EnableWAL:         false,
		}

		db, err = Open(tmpDir, opts)
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		defer db.Close()
	})
}

// TestSaveScanReport tests saving and retrieving scan reports.
func TestSaveScanReport(t *testing.T) {
	t.Parallel()

	t.Run("saves and retrieves report", func(t *testing.T) {
		t.Parallel()

		db, cleanup := setupTestDB(t)
		defer cleanup()

		ctx := context.Background()
		report := sampleReport("alice")

		if err := db.SaveScanReport(ctx, report); err != nil {
			t.Fatalf("failed to save scan report: %v", err)
		}

		got, err := db.GetLatestScanReport(ctx, "alice")
		if err != nil {
			t.Fatalf("failed to get scan report: %v", err)
		}
		if got == nil {
			t.Fatal("expected report, got nil")
		}
		if got.Handle != "alice" {
			t.Errorf("handle = %q, want %q", got.Handle, "alice")
		}
		if len(got.ProbeResults) != 3 {
			t.Errorf("probe results = %d, want 3", len(got.ProbeResults))
		}
		if got.Risk == nil || got.Risk.Level != model.RiskMedium {
			t.Errorf("risk level not preserved: %+v", got.Risk)
		}
	})

	t.Run("records platform hits for found results only", func(t *testing.T) {
		t.Parallel()

		db, cleanup := setupTestDB(t)
		defer cleanup()

		ctx := context.Background()
		if err := db.SaveScanReport(ctx, sampleReport("alice")); err != nil {
			t.Fatalf("failed to save scan report: %v", err)
		}

		hits, err := db.QueryPlatformHits(ctx, "alice", "")
		if err != nil {
			t.Fatalf("failed to query platform hits: %v", err)
		}
		if len(hits) != 2 {
			t.Fatalf("hits = %d, want 2 (not_found results must be excluded)", len(hits))
		}
		for _, hit := range hits {
			if hit.Status != string(model.StatusFound) {
				t.Errorf("hit status = %q, want %q", hit.Status, model.StatusFound)
			}
		}
	})

	t.Run("tolerates report without risk or exposure", func(t *testing.T) {
		t.Parallel()

		db, cleanup := setupTestDB(t)
		defer cleanup()

		ctx := context.Background()
		report := model.NewScanReport("bob")
		report.ErrorMessage = "context deadline exceeded"

		if err := db.SaveScanReport(ctx, report); err != nil {
			t.Fatalf("failed to save partial report: %v", err)
		}

		got, err := db.GetLatestScanReport(ctx, "bob")
		if err != nil {
			t.Fatalf("failed to get partial report: %v", err)
		}
		if got == nil || got.ErrorMessage != "context deadline exceeded" {
			t.Errorf("partial report not preserved: %+v", got)
		}
	})
}

// TestGetLatestScanReport tests retrieval of the most recent report.
func TestGetLatestScanReport(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for never-scanned handle", func(t *testing.T) {
		t.Parallel()

		db, cleanup := setupTestDB(t)
		defer cleanup()

		got, err := db.GetLatestScanReport(context.Background(), "ghost")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil report, got %+v", got)
		}
	})

	t.Run("returns newest of multiple reports", func(t *testing.T) {
		t.Parallel()

		db, cleanup := setupTestDB(t)
		defer cleanup()

		ctx := context.Background()

		first := sampleReport("alice")
		first.Summary = "first scan"
		if err := db.SaveScanReport(ctx, first); err != nil {
			t.Fatalf("failed to save first report: %v", err)
		}

		second := sampleReport("alice")
		second.Summary = "second scan"
		if err := db.SaveScanReport(ctx, second); err != nil {
			t.Fatalf("failed to save second report: %v", err)
		}

		got, err := db.GetLatestScanReport(ctx, "alice")
		if err != nil {
			t.Fatalf("failed to get latest report: %v", err)
		}
		if got == nil || got.Summary != "second scan" {
			t.Errorf("expected second scan, got %+v", got)
		}
	})
}

// TestGetScanHistory tests retrieval of all reports for a handle.
func TestGetScanHistory(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := db.SaveScanReport(ctx, sampleReport("alice")); err != nil {
			t.Fatalf("failed to save report %d: %v", i, err)
		}
	}
	if err := db.SaveScanReport(ctx, sampleReport("bob")); err != nil {
		t.Fatalf("failed to save bob report: %v", err)
	}

	history, err := db.GetScanHistory(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to get scan history: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("history length = %d, want 3", len(history))
	}
	for _, report := range history {
		if report.Handle != "alice" {
			t.Errorf("history contains handle %q, want only alice", report.Handle)
		}
	}
}

// TestGetScanHistoryWithMetadata tests the lightweight history listing.
func TestGetScanHistoryWithMetadata(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := db.SaveScanReport(ctx, sampleReport("alice")); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	metas, err := db.GetScanHistoryWithMetadata(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to get metadata: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("metadata length = %d, want 1", len(metas))
	}

	meta := metas[0]
	if meta.Handle != "alice" {
		t.Errorf("handle = %q, want alice", meta.Handle)
	}
	if meta.ID == 0 {
		t.Error("expected non-zero report ID")
	}
	if meta.RiskSummary.Level != model.RiskMedium.String() {
		t.Errorf("risk level = %q, want %q", meta.RiskSummary.Level, model.RiskMedium.String())
	}
	if meta.RiskSummary.Score != 41.8 {
		t.Errorf("risk score = %v, want 41.8", meta.RiskSummary.Score)
	}
	if meta.RiskSummary.PlatformsFound != 2 {
		t.Errorf("platforms found = %d, want 2", meta.RiskSummary.PlatformsFound)
	}
	if meta.Timestamp.IsZero() {
		t.Error("expected parsed timestamp, got zero time")
	}
}

// TestGetScanReportByID tests retrieval by database ID.
func TestGetScanReportByID(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := db.SaveScanReport(ctx, sampleReport("alice")); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	metas, err := db.GetScanHistoryWithMetadata(ctx, "alice")
	if err != nil || len(metas) != 1 {
		t.Fatalf("failed to get metadata: %v", err)
	}

	got, err := db.GetScanReportByID(ctx, metas[0].ID)
	if err != nil {
		t.Fatalf("failed to get report by ID: %v", err)
	}
	if got == nil || got.Handle != "alice" {
		t.Errorf("unexpected report: %+v", got)
	}

	missing, err := db.GetScanReportByID(ctx, 999999)
	if err != nil {
		t.Fatalf("unexpected error for missing ID: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing ID, got %+v", missing)
	}
}

// TestListScannedHandles tests the distinct handle listing.
func TestListScannedHandles(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for _, handle := range []string{"bob", "alice", "alice"} {
		if err := db.SaveScanReport(ctx, sampleReport(handle)); err != nil {
			t.Fatalf("failed to save report for %s: %v", handle, err)
		}
	}

	handles, err := db.ListScannedHandles(ctx)
	if err != nil {
		t.Fatalf("failed to list handles: %v", err)
	}
	want := []string{"alice", "bob"}
	if len(handles) != len(want) {
		t.Fatalf("handles = %v, want %v", handles, want)
	}
	for i, handle := range want {
		if handles[i] != handle {
			t.Errorf("handles[%d] = %q, want %q", i, handles[i], handle)
		}
	}
}

// TestQueryPlatformHits tests hit queries with filters.
func TestQueryPlatformHits(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := db.SaveScanReport(ctx, sampleReport("alice")); err != nil {
		t.Fatalf("failed to save alice report: %v", err)
	}
	if err := db.SaveScanReport(ctx, sampleReport("bob")); err != nil {
		t.Fatalf("failed to save bob report: %v", err)
	}

	tests := []struct {
		name     string
		handle   string
		platform string
		want     int
	}{
		{name: "no filters returns all hits", handle: "", platform: "", want: 4},
		{name: "filter by handle", handle: "alice", platform: "", want: 2},
		{name: "filter by platform", handle: "", platform: "github", want: 2},
		{name: "filter by handle and platform", handle: "alice", platform: "github", want: 1},
		{name: "no matches", handle: "ghost", platform: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := db.QueryPlatformHits(ctx, tt.handle, tt.platform)
			if err != nil {
				t.Fatalf("failed to query hits: %v", err)
			}
			if len(hits) != tt.want {
				t.Errorf("hits = %d, want %d", len(hits), tt.want)
			}
		})
	}
}

// TestHasRecentScan tests the rescan freshness check.
func TestHasRecentScan(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := db.SaveScanReport(ctx, sampleReport("alice")); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	recent, err := db.HasRecentScan(ctx, "alice", time.Hour)
	if err != nil {
		t.Fatalf("failed to check recent scan: %v", err)
	}
	if !recent {
		t.Error("expected recent scan within the last hour")
	}

	recent, err = db.HasRecentScan(ctx, "ghost", time.Hour)
	if err != nil {
		t.Fatalf("failed to check recent scan: %v", err)
	}
	if recent {
		t.Error("did not expect recent scan for never-scanned handle")
	}
}

// TestParseTimestamp tests timestamp parsing across SQLite output formats.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "sqlite default", input: "2026-03-14 12:30:45", zero: false},
		{name: "iso 8601 with Z", input: "2026-03-14T12:30:45Z", zero: false},
		{name: "rfc3339 with offset", input: "2026-03-14T12:30:45+09:00", zero: false},
		{name: "with milliseconds", input: "2026-03-14 12:30:45.123", zero: false},
		{name: "garbage", input: "not-a-timestamp", zero: true},
		{name: "empty", input: "", zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q).IsZero() = %v, want %v", tt.input, got.IsZero(), tt.zero)
			}
		})
	}
}
