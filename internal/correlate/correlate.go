package correlate

import (
	"sort"

	"github.com/traceprint/traceprint/internal/model"
)

// Correlate scans the normalized record for identifiers appearing on
// two or more platforms and returns one match per such identifier.
//
// Two identifier classes are checked independently:
//   - username: the scanned handle against its found platforms
//   - email: each distinct email value against the platforms it
//     surfaced on
//
// Matches are independent; a platform may appear in several matches.
// Platform sets are sorted so output is deterministic regardless of
// probe arrival order.
func Correlate(exposure model.NormalizedExposure) []model.CorrelationMatch {
	var matches []model.CorrelationMatch

	if platforms := uniqueSorted(exposure.PlatformsFound); len(platforms) >= 2 {
		matches = append(matches, model.CorrelationMatch{
			Type:       model.IdentifierUsername,
			Identifier: exposure.Handle,
			Platforms:  platforms,
		})
	}

	// Group email findings by address. The synthetic "Input" fallback
	// entry carries no platform linkage and is excluded.
	byValue := make(map[string][]string)
	for _, finding := range exposure.EmailsFound {
		if finding.Platform == "" || finding.Platform == "Input" {
			continue
		}
		value := finding.Value
		if value == "" {
			value = exposure.Handle
		}
		byValue[value] = append(byValue[value], finding.Platform)
	}

	values := make([]string, 0, len(byValue))
	for value := range byValue {
		values = append(values, value)
	}
	sort.Strings(values)

	for _, value := range values {
		platforms := uniqueSorted(byValue[value])
		if len(platforms) < 2 {
			continue
		}
		matches = append(matches, model.CorrelationMatch{
			Type:       model.IdentifierEmail,
			Identifier: value,
			Platforms:  platforms,
		})
	}

	return matches
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
