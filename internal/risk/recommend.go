package risk

import "github.com/traceprint/traceprint/internal/model"

// maxRecommendations caps the advice list so reports stay actionable.
const maxRecommendations = 7

// Recommendations builds the advice list for an assessment from a fixed
// rule table: level-driven advice first (most urgent), then
// platform-specific advice, then the leading anomaly. The list is
// deduplicated and truncated to maxRecommendations.
func Recommendations(level model.RiskLevel, anomalies []string, found []string) []string {
	recommendations := make([]string, 0, maxRecommendations)

	switch level {
	case model.RiskCritical:
		recommendations = append(recommendations,
			"CRITICAL: immediate action required - consider privacy mode on sensitive platforms",
			"Review all linked accounts for suspicious activity",
			"Use different usernames on sensitive platforms (finance, health)",
		)
	case model.RiskHigh:
		recommendations = append(recommendations,
			"HIGH: review privacy settings on all major platforms",
			"Enable two-factor authentication on critical accounts",
			"Audit account recovery options (email, phone)",
		)
	case model.RiskMedium:
		recommendations = append(recommendations,
			"MEDIUM: review privacy settings on key platforms",
			"Consider limiting personal information visibility",
			"Check what information is publicly visible",
		)
	default:
		recommendations = append(recommendations,
			"LOW: maintain current privacy practices",
			"Regular exposure reviews recommended",
		)
	}

	foundSet := make(map[string]bool, len(found))
	for _, name := range found {
		foundSet[name] = true
	}
	if foundSet["facebook"] {
		recommendations = append(recommendations, "facebook: limit visible connections and profile details")
	}
	if foundSet["linkedin"] {
		recommendations = append(recommendations, "linkedin: limit visible connections and profile details")
	}
	if foundSet["twitter"] {
		recommendations = append(recommendations, "twitter: review geotagged posts and location services")
	}
	if foundSet["instagram"] {
		recommendations = append(recommendations, "instagram: review geotagged posts and location services")
	}
	if foundSet["github"] {
		recommendations = append(recommendations, "github: audit public repositories for sensitive data exposure")
	}

	if len(anomalies) > 0 {
		recommendations = append(recommendations, "Anomaly detected: "+anomalies[0])
	}

	recommendations = dedupe(recommendations)
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
