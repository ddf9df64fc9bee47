package correlate

import (
	"testing"

	"github.com/traceprint/traceprint/internal/model"
)

func TestCorrelateUsernameAcrossPlatforms(t *testing.T) {
	t.Parallel()

	exposure := model.NormalizedExposure{
		Handle:         "alice",
		PlatformsFound: []string{"github", "reddit", "twitter"},
	}

	matches := Correlate(exposure)
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}

	m := matches[0]
	if m.Type != model.IdentifierUsername {
		t.Errorf("Type = %q, want %q", m.Type, model.IdentifierUsername)
	}
	if m.Identifier != "alice" {
		t.Errorf("Identifier = %q, want alice", m.Identifier)
	}
	want := []string{"github", "reddit", "twitter"}
	if len(m.Platforms) != len(want) {
		t.Fatalf("Platforms = %v, want %v", m.Platforms, want)
	}
	for i := range want {
		if m.Platforms[i] != want[i] {
			t.Errorf("Platforms[%d] = %q, want %q (sorted)", i, m.Platforms[i], want[i])
		}
	}
}

func TestCorrelateSinglePlatformEmitsNothing(t *testing.T) {
	t.Parallel()

	exposure := model.NormalizedExposure{
		Handle:         "alice",
		PlatformsFound: []string{"github"},
	}

	if matches := Correlate(exposure); len(matches) != 0 {
		t.Errorf("matches = %v, want none for a single platform", matches)
	}
}

func TestCorrelateEmailAcrossServices(t *testing.T) {
	t.Parallel()

	exposure := model.NormalizedExposure{
		Handle: "bob@example.com",
		EmailsFound: []model.EmailFinding{
			{Platform: "Gravatar", Value: "bob@example.com"},
			{Platform: "PasteSite", Value: "bob@example.com"},
		},
	}

	matches := Correlate(exposure)
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	if matches[0].Type != model.IdentifierEmail {
		t.Errorf("Type = %q, want %q", matches[0].Type, model.IdentifierEmail)
	}
	if matches[0].Identifier != "bob@example.com" {
		t.Errorf("Identifier = %q", matches[0].Identifier)
	}
	if len(matches[0].Platforms) != 2 {
		t.Errorf("Platforms = %v, want 2 entries", matches[0].Platforms)
	}
}

func TestCorrelateIgnoresInputFallback(t *testing.T) {
	t.Parallel()

	exposure := model.NormalizedExposure{
		Handle: "bob@example.com",
		EmailsFound: []model.EmailFinding{
			{Platform: "Input", Value: "bob@example.com", Detail: "Email scanned"},
		},
	}

	if matches := Correlate(exposure); len(matches) != 0 {
		t.Errorf("matches = %v, want none from the fallback entry", matches)
	}
}

func TestCorrelateMixedIdentifiers(t *testing.T) {
	t.Parallel()

	exposure := model.NormalizedExposure{
		Handle:         "carol@example.com",
		PlatformsFound: []string{"github", "devto"},
		EmailsFound: []model.EmailFinding{
			{Platform: "Gravatar", Value: "carol@example.com"},
			{Platform: "PasteSite", Value: "carol@example.com"},
		},
	}

	matches := Correlate(exposure)
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].Type != model.IdentifierUsername || matches[1].Type != model.IdentifierEmail {
		t.Errorf("match types = %q, %q", matches[0].Type, matches[1].Type)
	}
}

// TestCorrelateSaturatedScan pins the behavior for a handle found
// everywhere: exactly one username match carrying every platform.
func TestCorrelateSaturatedScan(t *testing.T) {
	t.Parallel()

	platforms := []string{
		"p01", "p02", "p03", "p04", "p05",
		"p06", "p07", "p08", "p09", "p10",
	}
	exposure := model.NormalizedExposure{
		Handle:         "alice",
		PlatformsFound: platforms,
	}

	matches := Correlate(exposure)
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want exactly 1", len(matches))
	}
	if len(matches[0].Platforms) != 10 {
		t.Errorf("len(Platforms) = %d, want 10", len(matches[0].Platforms))
	}

	report := model.NewScanReport("alice")
	report.Correlations = matches
	total, linked := report.CorrelationSummary()
	if total != 1 {
		t.Errorf("total matches = %d, want 1", total)
	}
	if linked != 10 {
		t.Errorf("linked platforms = %d, want 10", linked)
	}
}
