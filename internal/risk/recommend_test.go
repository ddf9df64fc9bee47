package risk

import (
	"strings"
	"testing"

	"github.com/traceprint/traceprint/internal/model"
)

func TestRecommendationsByLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     model.RiskLevel
		wantFirst string
	}{
		{name: "critical", level: model.RiskCritical, wantFirst: "CRITICAL"},
		{name: "high", level: model.RiskHigh, wantFirst: "HIGH"},
		{name: "medium", level: model.RiskMedium, wantFirst: "MEDIUM"},
		{name: "low", level: model.RiskLow, wantFirst: "LOW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Recommendations(tt.level, nil, nil)
			if len(got) == 0 {
				t.Fatal("no recommendations returned")
			}
			if !strings.HasPrefix(got[0], tt.wantFirst) {
				t.Errorf("first recommendation = %q, want %s urgency first", got[0], tt.wantFirst)
			}
		})
	}
}

func TestRecommendationsPlatformSpecific(t *testing.T) {
	t.Parallel()

	got := Recommendations(model.RiskLow, nil, []string{"github", "facebook"})

	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, "github") {
		t.Errorf("expected github advice in %v", got)
	}
	if !strings.Contains(joined, "facebook") {
		t.Errorf("expected facebook advice in %v", got)
	}
}

func TestRecommendationsIncludeLeadingAnomaly(t *testing.T) {
	t.Parallel()

	anomalies := []string{"first anomaly", "second anomaly"}
	got := Recommendations(model.RiskLow, anomalies, nil)

	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, "first anomaly") {
		t.Errorf("expected leading anomaly in %v", got)
	}
	if strings.Contains(joined, "second anomaly") {
		t.Errorf("only the leading anomaly should surface, got %v", got)
	}
}

func TestRecommendationsCappedAndDeduplicated(t *testing.T) {
	t.Parallel()

	found := []string{"facebook", "linkedin", "twitter", "instagram", "github"}
	got := Recommendations(model.RiskCritical, []string{"anomaly"}, found)

	if len(got) > maxRecommendations {
		t.Errorf("len = %d, want at most %d", len(got), maxRecommendations)
	}

	seen := make(map[string]bool, len(got))
	for _, rec := range got {
		if seen[rec] {
			t.Errorf("duplicate recommendation %q", rec)
		}
		seen[rec] = true
	}
}
