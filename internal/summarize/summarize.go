package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/traceprint/traceprint/internal/model"
)

// Summarizer renders an assessment into a short prose explanation.
type Summarizer interface {
	Summarize(ctx context.Context, exposure model.NormalizedExposure, assessment model.RiskAssessment, anomalies model.AnomalyReport) (string, error)
}

// Static is the deterministic fallback summarizer. It builds the prose
// from the structured fields alone, so the same assessment always
// yields the same text.
type Static struct{}

// NewStatic returns the deterministic summarizer.
func NewStatic() *Static {
	return &Static{}
}

// Summarize renders the canned prose. It never fails.
func (s *Static) Summarize(_ context.Context, exposure model.NormalizedExposure, assessment model.RiskAssessment, anomalies model.AnomalyReport) (string, error) {
	var b strings.Builder

	found := exposure.PlatformsFound
	switch len(found) {
	case 0:
		fmt.Fprintf(&b, "The handle %q was not found on any of the %d platforms checked.",
			exposure.Handle, len(exposure.AllPlatformsChecked))
	case 1:
		fmt.Fprintf(&b, "The handle %q was found on one platform (%s) out of %d checked.",
			exposure.Handle, found[0], len(exposure.AllPlatformsChecked))
	default:
		fmt.Fprintf(&b, "The handle %q was found on %d of %d platforms checked (%s).",
			exposure.Handle, len(found), len(exposure.AllPlatformsChecked), strings.Join(found, ", "))
	}

	fmt.Fprintf(&b, " Overall risk is %s with a score of %.0f/100 at %.0f%% confidence.",
		assessment.Level, assessment.Score, assessment.Confidence)

	if len(exposure.EmailsFound) > 0 {
		fmt.Fprintf(&b, " %d contact-information exposure(s) were recorded.", len(exposure.EmailsFound))
	}
	if n := len(anomalies.Anomalies); n > 0 {
		fmt.Fprintf(&b, " %d anomaly flag(s) were raised (severity %s), the most notable being: %s.",
			n, anomalies.Severity, anomalies.Anomalies[0])
	}
	if len(assessment.Recommendations) > 0 {
		fmt.Fprintf(&b, " Top recommendation: %s", assessment.Recommendations[0])
	}

	return b.String(), nil
}
