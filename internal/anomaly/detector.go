package anomaly

import (
	"math"
	"strings"

	"github.com/traceprint/traceprint/internal/model"
)

// coordinationCeiling is the platform count against which account
// coordination is normalized.
const coordinationCeiling = 15

// Platform sets consumed by the rules.
var (
	nichePlatforms = map[string]bool{
		"reddit": true, "4chan": true, "imgur": true, "devto": true,
	}
	professionalPlatforms = map[string]bool{
		"linkedin": true, "github": true, "stackoverflow": true,
	}
	entertainmentMixPlatforms = map[string]bool{
		"tiktok": true, "twitch": true,
	}
	socialPlatforms = map[string]bool{
		"twitter": true, "instagram": true, "facebook": true, "tiktok": true,
	}
	entertainmentOnlyPlatforms = map[string]bool{
		"twitch": true, "tiktok": true, "youtube": true, "spotify": true,
	}
	mainstreamPlatforms = map[string]bool{
		"facebook": true, "instagram": true, "twitter": true,
	}
	technicalPlatforms = map[string]bool{
		"github": true, "stackoverflow": true, "devto": true,
	}
	creatorPlatforms = map[string]bool{
		"youtube": true, "twitch": true, "medium": true, "devto": true,
	}
)

// impersonationTokens are handle substrings that attract impersonation:
// generic service accounts and very common given names.
var impersonationTokens = []string{"admin", "test", "user", "demo", "john", "jane"}

// Detect runs the full rule battery over the normalized record and
// returns the anomaly report.
func Detect(exposure model.NormalizedExposure) model.AnomalyReport {
	found := foundPlatforms(exposure)

	var anomalies []string
	anomalies = append(anomalies, platformAnomalies(exposure, found)...)
	anomalies = append(anomalies, handleAnomalies(exposure.Handle)...)
	anomalies = append(anomalies, correlationAnomalies(found)...)

	impersonation := impersonationRisk(exposure.Handle, found)
	bot := botLikelihood(exposure, found)

	return model.AnomalyReport{
		Anomalies: anomalies,
		Severity:  severity(len(anomalies), impersonation, bot),
		Indicators: model.ThreatIndicators{
			ImpersonationRisk:   impersonation,
			BotLikelihood:       bot,
			AccountCoordination: accountCoordination(len(found)),
		},
		Patterns: suspiciousPatterns(exposure, found),
	}
}

// platformAnomalies inspects the distribution of probe outcomes.
// With no found platform there is no distribution to judge.
func platformAnomalies(exposure model.NormalizedExposure, found []string) []string {
	if len(found) == 0 {
		return nil
	}

	var anomalies []string

	nicheCount := countIn(found, nichePlatforms)
	if nicheCount == len(found) {
		anomalies = append(anomalies, "Only niche platforms detected - May indicate privacy focus or anonymity-seeking behavior")
	}

	proCount := countIn(found, professionalPlatforms)
	entCount := countIn(found, entertainmentMixPlatforms)
	if proCount > 0 && entCount > 0 && len(found) > 6 {
		anomalies = append(anomalies, "Mixed professional and entertainment platforms - Unusual activity pattern detected")
	}

	if exposure.FailedCount() > 6 {
		anomalies = append(anomalies, "Multiple platform errors - May indicate geographic blocking or bot detection")
	}

	return anomalies
}

// handleAnomalies inspects the handle's shape.
func handleAnomalies(handle string) []string {
	handle = strings.ToLower(handle)
	if handle == "" {
		return nil
	}

	var anomalies []string

	if len(handle) < 4 {
		anomalies = append(anomalies, "Very short username - May be impersonating or generic account")
	}
	if digitOnly(handle) {
		anomalies = append(anomalies, "Numeric-only username - Typical of auto-generated or bot accounts")
	}
	if strings.Count(handle, "_") > 2 || strings.Count(handle, ".") > 2 {
		anomalies = append(anomalies, "Excessive special characters - May indicate multiple accounts or obfuscation")
	}

	return anomalies
}

// correlationAnomalies flags how linkable the found accounts are.
func correlationAnomalies(found []string) []string {
	switch {
	case len(found) >= 5:
		return []string{"High username correlation - Account easily linked across platforms"}
	case len(found) >= 3:
		return []string{"Low account correlation - May indicate privacy consciousness"}
	default:
		return nil
	}
}

// impersonationRisk is an additive point score in [0,100].
func impersonationRisk(handle string, found []string) float64 {
	risk := 0.0
	handle = strings.ToLower(handle)

	for _, token := range impersonationTokens {
		if strings.Contains(handle, token) {
			risk += 30
			break
		}
	}

	if countIn(found, socialPlatforms) >= 2 {
		risk += 20
	}

	// Broad presence without the professional anchor people use to
	// prove identity raises the odds that someone else claims it.
	if len(found) >= 2 && !contains(found, "linkedin") {
		risk += 15
	}

	return math.Min(risk, 100)
}

// botLikelihood is an additive point score in [0,100], from a rule set
// disjoint with impersonationRisk except for the handle-shape check.
func botLikelihood(exposure model.NormalizedExposure, found []string) float64 {
	likelihood := 0.0

	if len(found) > 10 {
		likelihood += 30
	}
	if len(found) > 0 && countIn(found, entertainmentOnlyPlatforms) == len(found) {
		likelihood += 20
	}
	if digitOnly(strings.ToLower(exposure.Handle)) {
		likelihood += 25
	}

	errorCount := 0
	for _, result := range exposure.AllPlatformsChecked {
		if result.Status == model.StatusError {
			errorCount++
		}
	}
	if errorCount > 4 {
		likelihood += 15
	}

	return math.Min(likelihood, 100)
}

// accountCoordination measures how consistently the handle resolves
// across the catalog, normalized to the reference platform count.
func accountCoordination(foundCount int) float64 {
	if foundCount == 0 {
		return 0
	}
	coordination := float64(foundCount) / coordinationCeiling * 100
	return math.Round(coordination*10) / 10
}

// suspiciousPatterns describes benign behavioral shapes. They are
// reported separately from anomalies and never raise severity.
func suspiciousPatterns(exposure model.NormalizedExposure, found []string) []string {
	var patterns []string

	if len(found) >= 2 && countIn(found, mainstreamPlatforms) == len(found) {
		patterns = append(patterns, "Mainstream social media only - Standard consumer behavior")
	}
	if countIn(found, technicalPlatforms) >= 2 {
		patterns = append(patterns, "Strong technical presence - Developer or tech professional")
	}
	if countIn(found, creatorPlatforms) >= 2 {
		patterns = append(patterns, "Content creator profile - Likely monetized presence")
	}
	if len(found) < 3 && len(exposure.AllPlatformsChecked) >= 10 {
		patterns = append(patterns, "Privacy-focused - Selective platform usage despite testing multiple")
	}

	return patterns
}

// severity combines the rule hits and threat scores into a coarse
// bucket. Anomaly count dominates so a quiet record with one elevated
// indicator stays LOW.
func severity(anomalyCount int, impersonation, bot float64) model.RiskLevel {
	score := float64(anomalyCount)*10 + impersonation*0.3 + bot*0.3
	switch {
	case score > 60:
		return model.RiskHigh
	case score > 30:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func foundPlatforms(exposure model.NormalizedExposure) []string {
	found := make([]string, 0, len(exposure.PlatformsFound))
	for _, name := range exposure.PlatformsFound {
		found = append(found, strings.ToLower(name))
	}
	return found
}

// digitOnly reports whether the handle is numeric once common mail
// suffixes and dots are stripped.
func digitOnly(handle string) bool {
	stripped := strings.ReplaceAll(strings.TrimSuffix(handle, "@gmail.com"), ".", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func countIn(platforms []string, set map[string]bool) int {
	count := 0
	for _, name := range platforms {
		if set[name] {
			count++
		}
	}
	return count
}

func contains(platforms []string, name string) bool {
	for _, p := range platforms {
		if p == name {
			return true
		}
	}
	return false
}
