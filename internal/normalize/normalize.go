package normalize

import (
	"strings"
	"time"

	"github.com/traceprint/traceprint/internal/model"
)

// Normalize folds raw probe results and email findings into a canonical
// exposure record.
//
// Rules:
//   - A platform enters PlatformsFound iff its probe status is found.
//     Probe order is preserved and duplicates are dropped.
//   - Email findings fold into EmailsFound. If the handle is an email
//     address and no finding materialized, a minimal fallback entry is
//     still emitted so contact-information exposure is never silently
//     zero for an email handle.
//   - NamesFound seeds from the handle's lowercased local part. This is
//     a heuristic identifier proxy, not a verified name.
//
// The returned record satisfies model.NormalizedExposure.Validate().
func Normalize(handle string, emailFindings []model.EmailFinding, probeResults []model.ProbeResult) model.NormalizedExposure {
	exposure := model.NormalizedExposure{
		Handle:              handle,
		Timestamp:           time.Now().UTC(),
		AllPlatformsChecked: append([]model.ProbeResult(nil), probeResults...),
		EmailsFound:         append([]model.EmailFinding(nil), emailFindings...),
	}

	seen := make(map[string]bool, len(probeResults))
	for _, result := range probeResults {
		if result.Status != model.StatusFound || seen[result.Platform] {
			continue
		}
		seen[result.Platform] = true
		exposure.PlatformsFound = append(exposure.PlatformsFound, result.Platform)
	}

	isEmail := strings.Contains(handle, "@")
	if isEmail && len(exposure.EmailsFound) == 0 {
		exposure.EmailsFound = append(exposure.EmailsFound, model.EmailFinding{
			Platform: "Input",
			Value:    handle,
			Detail:   "Email scanned",
		})
	}

	if name := localPart(handle); name != "" {
		exposure.NamesFound = append(exposure.NamesFound, name)
	}

	exposure.Summary = model.ExposureSummary{
		PersonalIdentifiers: len(exposure.NamesFound),
		ContactInformation:  len(exposure.EmailsFound),
		OnlineAccounts:      len(exposure.PlatformsFound),
	}
	exposure.Summary.TotalExposures = exposure.Summary.PersonalIdentifiers +
		exposure.Summary.ContactInformation +
		exposure.Summary.OnlineAccounts

	return exposure
}

// localPart lowercases the token before '@', or the whole handle when
// there is no '@'.
func localPart(handle string) string {
	handle = strings.TrimSpace(handle)
	if at := strings.Index(handle, "@"); at >= 0 {
		handle = handle[:at]
	}
	return strings.ToLower(handle)
}
