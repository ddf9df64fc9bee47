package model

// PlatformRisk is the per-platform slice of a risk assessment.
type PlatformRisk struct {
	// RiskScore is the platform's contribution in [0, 100].
	RiskScore float64 `json:"risk_score"`

	// Sensitivity is the platform's data-sensitivity weight scaled to
	// [0, 100]. Zero for platforms where the handle was not found.
	Sensitivity float64 `json:"sensitivity"`
}

// RiskAssessment is the output of the weighted ensemble scorer.
// It is derived from a NormalizedExposure and never stored by the core.
type RiskAssessment struct {
	// Level is the banded classification of Score.
	Level RiskLevel `json:"risk_level"`

	// Score is the ensemble risk score in [0, 100].
	Score float64 `json:"score"`

	// Confidence expresses data completeness in [0, 100]. It grows with
	// the amount of evidence available, never with the score itself.
	Confidence float64 `json:"confidence"`

	// PlatformRisks maps found platforms to their individual contributions.
	PlatformRisks map[string]PlatformRisk `json:"platform_risks"`

	// Recommendations lists privacy actions, most urgent first,
	// deduplicated and capped at seven entries.
	Recommendations []string `json:"recommendations"`
}

// ThreatIndicators carries the anomaly engine's point scores,
// each clamped to [0, 100].
type ThreatIndicators struct {
	// ImpersonationRisk estimates how attractive the handle is as an
	// impersonation target.
	ImpersonationRisk float64 `json:"impersonation_risk"`

	// BotLikelihood estimates how much the footprint resembles automated
	// account farming.
	BotLikelihood float64 `json:"bot_likelihood"`

	// AccountCoordination estimates how consistently the accounts are
	// managed across platforms.
	AccountCoordination float64 `json:"account_coordination"`
}

// AnomalyReport is the output of the anomaly heuristics engine.
// All rules behind it are stateless and deterministic, so two reports for
// the same NormalizedExposure are identical.
type AnomalyReport struct {
	// Anomalies lists the human-readable flags the rule battery raised.
	Anomalies []string `json:"anomalies"`

	// Severity is the weighted bucket over anomaly count and threat
	// indicators. Never exceeds RiskHigh.
	Severity RiskLevel `json:"severity"`

	// Indicators carries the additive threat point scores.
	Indicators ThreatIndicators `json:"threat_indicators"`

	// Patterns lists benign behavioral observations (e.g. "strong
	// technical presence"). Informational only; they do not affect
	// Severity.
	Patterns []string `json:"suspicious_patterns,omitempty"`
}
