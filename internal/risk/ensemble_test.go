package risk

import (
	"reflect"
	"testing"

	"github.com/traceprint/traceprint/internal/config"
	"github.com/traceprint/traceprint/internal/model"
	"github.com/traceprint/traceprint/internal/registry"
)

func defaultScorer() *Scorer {
	return NewScorer(registry.New(config.DefaultPlatforms()))
}

// exposureFor builds a normalized record where every named platform was
// found and the rest of the catalog was checked without a hit.
func exposureFor(handle string, found ...string) model.NormalizedExposure {
	reg := registry.New(config.DefaultPlatforms())
	foundSet := make(map[string]bool, len(found))
	for _, name := range found {
		foundSet[name] = true
	}

	var checked []model.ProbeResult
	for _, name := range reg.Names() {
		status := model.StatusNotFound
		if foundSet[name] {
			status = model.StatusFound
		}
		checked = append(checked, model.ProbeResult{Platform: name, Status: status})
	}

	return model.NormalizedExposure{
		Handle:              handle,
		PlatformsFound:      found,
		AllPlatformsChecked: checked,
		NamesFound:          []string{handle},
		Summary: model.ExposureSummary{
			PersonalIdentifiers: 1,
			OnlineAccounts:      len(found),
			TotalExposures:      1 + len(found),
		},
	}
}

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	scorer := defaultScorer()
	reg := registry.New(config.DefaultPlatforms())

	tests := []struct {
		name     string
		exposure model.NormalizedExposure
	}{
		{name: "empty record", exposure: model.NormalizedExposure{Handle: "x"}},
		{name: "single platform", exposure: exposureFor("alice", "github")},
		{name: "several platforms", exposure: exposureFor("alice", "github", "twitter", "reddit", "facebook")},
		{name: "entire catalog", exposure: exposureFor("alice", reg.Names()...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := scorer.Score(tt.exposure, nil)
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("Score = %v, want within [0, 100]", got.Score)
			}
			if got.Confidence < 0 || got.Confidence > 100 {
				t.Errorf("Confidence = %v, want within [0, 100]", got.Confidence)
			}
			if len(got.Recommendations) == 0 || len(got.Recommendations) > 7 {
				t.Errorf("len(Recommendations) = %d, want 1..7", len(got.Recommendations))
			}
		})
	}
}

// TestScoreIdempotent verifies there is no hidden randomness or
// time-dependence in the numeric fields.
func TestScoreIdempotent(t *testing.T) {
	t.Parallel()

	scorer := defaultScorer()
	exposure := exposureFor("alice", "github", "twitter", "linkedin")

	first := scorer.Score(exposure, []string{"some anomaly"})
	second := scorer.Score(exposure, []string{"some anomaly"})

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Score() not idempotent:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestScoreOrderingByExposure(t *testing.T) {
	t.Parallel()

	scorer := defaultScorer()

	none := scorer.Score(exposureFor("alice"), nil)
	some := scorer.Score(exposureFor("alice", "github", "reddit"), nil)
	many := scorer.Score(exposureFor("alice",
		"github", "reddit", "twitter", "facebook", "linkedin",
		"instagram", "tiktok", "youtube", "twitch", "medium"), nil)

	if none.Score >= some.Score {
		t.Errorf("no-exposure score %v should be below some-exposure score %v", none.Score, some.Score)
	}
	if some.Score >= many.Score {
		t.Errorf("some-exposure score %v should be below heavy-exposure score %v", some.Score, many.Score)
	}
	if none.Level > some.Level || some.Level > many.Level {
		t.Errorf("levels not ordered: %v, %v, %v", none.Level, some.Level, many.Level)
	}
}

func TestScoreEmptyRecordIsLow(t *testing.T) {
	t.Parallel()

	scorer := defaultScorer()
	got := scorer.Score(model.NormalizedExposure{Handle: "ghost"}, nil)

	if got.Level != model.RiskLow {
		t.Errorf("Level = %v, want LOW for an empty record", got.Level)
	}
	if len(got.PlatformRisks) != 0 {
		t.Errorf("PlatformRisks = %v, want empty", got.PlatformRisks)
	}
}

func TestCorrelationScore(t *testing.T) {
	t.Parallel()

	scorer := defaultScorer()

	tests := []struct {
		name  string
		found int
		want  float64
	}{
		{name: "zero platforms", found: 0, want: 0},
		{name: "one platform is below the pair minimum", found: 1, want: 0},
		{name: "three platforms", found: 3, want: 20},
		{name: "saturated at the reference ceiling", found: 15, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := scorer.correlationScore(tt.found); got != tt.want {
				t.Errorf("correlationScore(%d) = %v, want %v", tt.found, got, tt.want)
			}
		})
	}
}

func TestPlatformRisks(t *testing.T) {
	t.Parallel()

	scorer := defaultScorer()
	got := scorer.Score(exposureFor("alice", "facebook", "github"), nil)

	fb, ok := got.PlatformRisks["facebook"]
	if !ok {
		t.Fatal("facebook missing from PlatformRisks")
	}
	// weight 0.85, sensitivity 0.95: (0.85*0.6 + 0.95*0.4) * 100 = 89.0
	if fb.RiskScore != 89.0 {
		t.Errorf("facebook RiskScore = %v, want 89.0", fb.RiskScore)
	}
	if fb.Sensitivity != 95.0 {
		t.Errorf("facebook Sensitivity = %v, want 95.0", fb.Sensitivity)
	}

	gh, ok := got.PlatformRisks["github"]
	if !ok {
		t.Fatal("github missing from PlatformRisks")
	}
	// weight 0.6, sensitivity 0.70: (0.6*0.6 + 0.70*0.4) * 100 = 64.0
	if gh.RiskScore != 64.0 {
		t.Errorf("github RiskScore = %v, want 64.0", gh.RiskScore)
	}

	if _, ok := got.PlatformRisks["twitter"]; ok {
		t.Error("not-found platform should not appear in PlatformRisks")
	}
}

func TestConfidenceGrowsWithData(t *testing.T) {
	t.Parallel()

	scorer := defaultScorer()

	sparse := scorer.Score(model.NormalizedExposure{Handle: "alice"}, nil)
	rich := scorer.Score(exposureFor("alice", "github"), nil)

	if sparse.Confidence >= rich.Confidence {
		t.Errorf("confidence should grow with data: sparse %v, rich %v", sparse.Confidence, rich.Confidence)
	}
	if sparse.Confidence < 70 {
		t.Errorf("Confidence = %v, want at least the 70 base", sparse.Confidence)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  model.RiskLevel
	}{
		{0, model.RiskLow},
		{24.9, model.RiskLow},
		{25, model.RiskMedium},
		{49.9, model.RiskMedium},
		{50, model.RiskHigh},
		{74.9, model.RiskHigh},
		{75, model.RiskCritical},
		{100, model.RiskCritical},
	}

	for _, tt := range tests {
		if got := classify(tt.score); got != tt.want {
			t.Errorf("classify(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestUsernameConsistency(t *testing.T) {
	t.Parallel()

	if got := usernameConsistency(1); got != 0 {
		t.Errorf("usernameConsistency(1) = %v, want 0", got)
	}
	if got := usernameConsistency(15); got != 1.0 {
		t.Errorf("usernameConsistency(15) = %v, want 1.0", got)
	}
	if got := usernameConsistency(30); got != 1.0 {
		t.Errorf("usernameConsistency(30) = %v, want capped at 1.0", got)
	}
}
