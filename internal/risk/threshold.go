package risk

import (
	"github.com/traceprint/traceprint/internal/config"
	"github.com/traceprint/traceprint/internal/model"
)

// ThresholdLevel buckets the record's total exposure count against the
// configured thresholds.
//
// Semantics are exposure counts, not percentages: a total at or above
// High is HIGH, at or above Medium is MEDIUM, everything below is LOW.
// The Low threshold exists for config symmetry and future use; counts
// below Medium always classify LOW. The function is monotonic in the
// total by construction.
func ThresholdLevel(exposure model.NormalizedExposure, thresholds config.Thresholds) model.RiskLevel {
	total := exposure.Summary.TotalExposures
	switch {
	case total >= thresholds.High:
		return model.RiskHigh
	case total >= thresholds.Medium:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}
