package traceprint

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/traceprint/traceprint/internal/model"
)

// TestRunScanCancelled tests that a cancelled scan still yields a complete
// normalized record.
func TestRunScanCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exposure, err := RunScan(ctx, "alice", 0, 0)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if exposure.Handle != "alice" {
		t.Errorf("expected handle to carry through, got %q", exposure.Handle)
	}
	if validateErr := exposure.Validate(); validateErr != nil {
		t.Errorf("expected a valid record even after cancellation: %v", validateErr)
	}
	if len(exposure.PlatformsFound) != 0 {
		t.Errorf("expected no platforms found, got %v", exposure.PlatformsFound)
	}
}

// TestScoreDeterministic tests that Score is pure over its input.
func TestScoreDeterministic(t *testing.T) {
	t.Parallel()

	exposure := model.NormalizedExposure{
		Handle:         "alice",
		PlatformsFound: []string{"github", "twitter", "facebook"},
		Summary:        model.ExposureSummary{OnlineAccounts: 3, TotalExposures: 3},
	}

	first := Score(exposure)
	second := Score(exposure)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical assessments, got %+v and %+v", first, second)
	}
	if first.Score <= 0 || first.Score > 100 {
		t.Errorf("expected score in (0,100], got %f", first.Score)
	}
}

// TestDetectAnomaliesDeterministic tests that DetectAnomalies is pure.
func TestDetectAnomaliesDeterministic(t *testing.T) {
	t.Parallel()

	exposure := model.NormalizedExposure{
		Handle:         "admin123",
		PlatformsFound: []string{"twitter", "instagram"},
	}

	first := DetectAnomalies(exposure)
	second := DetectAnomalies(exposure)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical reports, got %+v and %+v", first, second)
	}
	if first.Indicators.ImpersonationRisk <= 0 {
		t.Error("expected the admin-prefixed handle to raise impersonation risk")
	}
}
