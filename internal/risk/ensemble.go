package risk

import (
	"math"

	"github.com/traceprint/traceprint/internal/model"
	"github.com/traceprint/traceprint/internal/registry"
)

// referenceCeiling is the platform count the normalization terms are
// scaled against. It matches the size of the default catalog; a scan of
// that many platforms carries full weight in the correlation and
// consistency terms.
const referenceCeiling = 15

// Ensemble sub-score weights. They sum to 1.0 so the final score stays
// in [0,100] whenever the sub-scores do.
const (
	weightBase        = 0.25
	weightPlatform    = 0.35
	weightExposure    = 0.25
	weightCorrelation = 0.15
)

// Scorer is the weighted ensemble scorer. Platform weights,
// sensitivities, and categories come from the registry so catalog
// overrides flow through scoring automatically.
type Scorer struct {
	registry *registry.Registry
}

// NewScorer creates an ensemble scorer over the given catalog.
func NewScorer(reg *registry.Registry) *Scorer {
	return &Scorer{registry: reg}
}

// Score computes the weighted ensemble assessment for a normalized
// exposure record. The anomalies, when present, only influence the
// recommendation list, never the numeric score.
func (s *Scorer) Score(exposure model.NormalizedExposure, anomalies []string) model.RiskAssessment {
	found := exposure.PlatformsFound

	base := s.baseScore(exposure)
	platformRisk := s.platformRiskScore(found)
	exposureScore := s.exposureScore(exposure)
	correlation := s.correlationScore(len(found))

	score := clamp(weightBase*base +
		weightPlatform*platformRisk +
		weightExposure*exposureScore +
		weightCorrelation*correlation)

	level := classify(score)

	return model.RiskAssessment{
		Level:           level,
		Score:           round2(score),
		Confidence:      round1(s.confidence(exposure)),
		PlatformRisks:   s.platformRisks(found),
		Recommendations: Recommendations(level, anomalies, found),
	}
}

// baseScore rewards breadth: platform count, category diversity, and
// the presence of personal and contact exposure, each with a capped
// contribution.
func (s *Scorer) baseScore(exposure model.NormalizedExposure) float64 {
	score := math.Min(float64(len(exposure.PlatformsFound))*10, 50)

	categories := make(map[model.PlatformCategory]bool)
	for _, name := range exposure.PlatformsFound {
		categories[s.categoryOf(name)] = true
	}
	score += math.Min(float64(len(categories))*8, 25)

	if len(exposure.NamesFound) > 0 {
		score += 15
	}
	if len(exposure.EmailsFound) > 0 {
		score += 10
	}
	return clamp(score)
}

// platformRiskScore is the mean per-platform risk weight (scaled to
// 0-100) over the found platforms. Unknown platforms weigh 0.5.
func (s *Scorer) platformRiskScore(found []string) float64 {
	if len(found) == 0 {
		return 0
	}
	total := 0.0
	for _, name := range found {
		total += s.registry.RiskWeight(name) * 10
	}
	return clamp(total / float64(len(found)) * 10)
}

// exposureScore is a sensitivity-weighted sum over the found platforms
// plus a username-consistency term. Consistent handles across many
// platforms are trivially correlatable, which is exposure in itself.
func (s *Scorer) exposureScore(exposure model.NormalizedExposure) float64 {
	score := 0.0
	for _, name := range exposure.PlatformsFound {
		score += s.registry.Sensitivity(name) * 20
	}
	score += usernameConsistency(len(exposure.PlatformsFound)) * 15
	return clamp(score)
}

// correlationScore normalizes the found-platform count against the
// reference ceiling. Below two platforms there is nothing to correlate.
func (s *Scorer) correlationScore(foundCount int) float64 {
	if foundCount < 2 {
		return 0
	}
	return clamp(float64(foundCount) / referenceCeiling * 100)
}

// confidence starts at a 70 base and grows with data completeness.
func (s *Scorer) confidence(exposure model.NormalizedExposure) float64 {
	confidence := 70.0
	if len(exposure.NamesFound) > 0 {
		confidence += 10
	}
	if len(exposure.EmailsFound) > 0 {
		confidence += 10
	}
	confidence += float64(len(exposure.AllPlatformsChecked)) / referenceCeiling * 10
	return clamp(confidence)
}

// platformRisks computes the per-platform breakdown for the found
// platforms. Risk blends breach-frequency weight (0.6) with data
// sensitivity (0.4); both shown on a 0-100 scale.
func (s *Scorer) platformRisks(found []string) map[string]model.PlatformRisk {
	risks := make(map[string]model.PlatformRisk, len(found))
	for _, name := range found {
		weight := s.registry.RiskWeight(name)
		sensitivity := s.registry.Sensitivity(name)
		risks[name] = model.PlatformRisk{
			RiskScore:   round1((weight*0.6 + sensitivity*0.4) * 100),
			Sensitivity: round1(sensitivity * 100),
		}
	}
	return risks
}

func (s *Scorer) categoryOf(name string) model.PlatformCategory {
	if category := s.registry.Category(name); category != "" {
		return category
	}
	return model.CategorySocialMedia
}

// usernameConsistency estimates how reusable the handle is: 1.0 means
// the identical handle resolves everywhere. With fewer than two found
// platforms consistency is meaningless and scores zero.
func usernameConsistency(foundCount int) float64 {
	if foundCount < 2 {
		return 0
	}
	return math.Min(float64(foundCount)/referenceCeiling, 1.0)
}

// classify maps a 0-100 score onto the four risk bands.
func classify(score float64) model.RiskLevel {
	switch {
	case score < 25:
		return model.RiskLow
	case score < 50:
		return model.RiskMedium
	case score < 75:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(v, 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
