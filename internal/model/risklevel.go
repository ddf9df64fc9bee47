package model

// RiskLevel represents the severity of an exposure assessment.
// This allows categorizing scan outcomes by their potential impact on
// the subject's privacy.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type RiskLevel int

const (
	// RiskLow indicates a small footprint with limited linkability.
	// Typical for handles found on fewer platforms than the LOW threshold.
	RiskLow RiskLevel = iota

	// RiskMedium indicates a visible footprint that warrants a privacy
	// review. Accounts exist on several platforms but correlation pressure
	// is moderate.
	RiskMedium

	// RiskHigh indicates a broad footprint that significantly aids
	// correlation: many linked accounts, sensitive platforms, or exposed
	// contact information.
	RiskHigh

	// RiskCritical indicates a footprint that likely permits full identity
	// correlation. Only the ensemble scorer emits this level; the threshold
	// scorer and the anomaly engine top out at RiskHigh.
	RiskCritical
)

// String returns a human-readable representation of the risk level.
func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON serializes the level as its string form so reports and the
// scan database stay readable without a decoder ring.
func (l RiskLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON accepts the string form produced by MarshalJSON.
func (l *RiskLevel) UnmarshalJSON(data []byte) error {
	*l = ParseRiskLevel(string(data))
	return nil
}

// ParseRiskLevel converts a string to a RiskLevel.
// Unknown strings map to RiskLow so a corrupt record degrades rather
// than inflates.
func ParseRiskLevel(s string) RiskLevel {
	switch trimQuotes(s) {
	case "CRITICAL":
		return RiskCritical
	case "HIGH":
		return RiskHigh
	case "MEDIUM":
		return RiskMedium
	default:
		return RiskLow
	}
}

// trimQuotes strips surrounding double quotes from a JSON string token.
func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
