package model

import "time"

// EmailCheck is one entry of the email-collaborator audit trail: syntax
// validation, disposable-domain lookup, external deliverability verdicts.
// These entries document what ran; only actual exposure signals become
// EmailFindings in the normalized record.
type EmailCheck struct {
	// Check names the check that ran (e.g. "Email Syntax").
	Check string `json:"check"`

	// Status is the check's verdict (e.g. "valid", "skipped").
	Status string `json:"status"`

	// Detail optionally elaborates on the verdict.
	Detail string `json:"detail,omitempty"`
}

// ScanReport is the aggregate one pipeline run accumulates. Steps write
// into it in sequence; nothing outside the pipeline mutates it.
//
// Design decision: We use a single mutable aggregate rather than threading
// step outputs through return values because steps are heterogeneous and
// optional (email checks only run for email handles, summarize only runs
// when a generator is configured). The pipeline owns the report for the
// duration of the scan; afterwards it is effectively immutable.
type ScanReport struct {
	// Handle is the username or email address being scanned.
	Handle string `json:"handle"`

	// StartedAt is when the scan began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total scan wall-clock time, set by the pipeline.
	Elapsed time.Duration `json:"elapsed_ns"`

	// EmailChecks is the audit trail of the email collaborators.
	// Empty for plain username handles.
	EmailChecks []EmailCheck `json:"email_checks,omitempty"`

	// EmailFindings holds raw email-derived exposure signals before
	// normalization.
	EmailFindings []EmailFinding `json:"email_findings,omitempty"`

	// ProbeResults holds the raw per-platform probe outcomes.
	ProbeResults []ProbeResult `json:"probe_results"`

	// Exposure is the canonical normalized record.
	Exposure *NormalizedExposure `json:"exposure,omitempty"`

	// Correlations holds cross-platform identifier matches.
	Correlations []CorrelationMatch `json:"correlations,omitempty"`

	// ThresholdLevel is the exposure-count bucket from the threshold scorer.
	ThresholdLevel RiskLevel `json:"threshold_level"`

	// Risk is the ensemble assessment.
	Risk *RiskAssessment `json:"risk,omitempty"`

	// Anomalies is the anomaly heuristics report.
	Anomalies *AnomalyReport `json:"anomalies,omitempty"`

	// Summary is the prose explanation of the assessment. When no
	// generation service is configured this holds the deterministic
	// fallback text; it never feeds back into the structured scores.
	Summary string `json:"summary,omitempty"`

	// PerformedSteps names the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps"`

	// ErrorMessage records the first step failure, if any. Per-platform
	// probe failures are not errors; they live in ProbeResults.
	ErrorMessage string `json:"error,omitempty"`

	// Err is the underlying error. Excluded from JSON because error values
	// do not serialize usefully.
	Err error `json:"-"`
}

// NewScanReport creates a ScanReport for the given handle with the clock
// started.
func NewScanReport(handle string) *ScanReport {
	return &ScanReport{
		Handle:         handle,
		StartedAt:      time.Now().UTC(),
		ProbeResults:   make([]ProbeResult, 0),
		PerformedSteps: make([]string, 0),
	}
}

// CorrelationSummary returns the derived correlation statistics:
// the number of matches and the number of distinct linked platforms.
func (r *ScanReport) CorrelationSummary() (matches, linkedPlatforms int) {
	seen := make(map[string]struct{})
	for _, m := range r.Correlations {
		for _, p := range m.Platforms {
			seen[p] = struct{}{}
		}
	}
	return len(r.Correlations), len(seen)
}
