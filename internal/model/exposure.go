package model

import (
	"fmt"
	"time"
)

// EmailFinding records one email-derived exposure signal, such as a public
// avatar resolving for the address or a deliverability verdict from an
// external validation service.
type EmailFinding struct {
	// Platform is the service that produced the signal (e.g. "Gravatar").
	Platform string `json:"platform"`

	// Value is the email address the signal concerns.
	Value string `json:"value,omitempty"`

	// Detail is a short human-readable description of the signal.
	Detail string `json:"detail,omitempty"`

	// URL points at the public resource backing the signal, when one exists.
	URL string `json:"url,omitempty"`
}

// ExposureSummary aggregates exposure counts by category.
// TotalExposures must equal the sum of the three category counts; this is
// a checked invariant (see Validate), not a convention.
type ExposureSummary struct {
	// PersonalIdentifiers counts inferred names and similar identity proxies.
	PersonalIdentifiers int `json:"personal_identifiers"`

	// ContactInformation counts email-derived exposures.
	ContactInformation int `json:"contact_information"`

	// OnlineAccounts counts platforms where the handle was found.
	OnlineAccounts int `json:"online_accounts"`

	// TotalExposures is the sum of the three category counts.
	TotalExposures int `json:"total_exposures"`
}

// NormalizedExposure is the canonical per-scan record every downstream
// analyzer consumes. It is built once by the normalizer and read-only
// afterwards; analyzers never write back into it.
type NormalizedExposure struct {
	// Handle is the username or email address that was scanned.
	Handle string `json:"handle"`

	// Timestamp is when the scan producing this record started.
	Timestamp time.Time `json:"timestamp"`

	// PlatformsFound lists platform names where the handle exists,
	// in the order they were checked.
	PlatformsFound []string `json:"platforms_found"`

	// AllPlatformsChecked holds every probe outcome, including failures,
	// preserving registry iteration order. The order matters only for
	// display; scoring is a pure aggregate over the set.
	AllPlatformsChecked []ProbeResult `json:"all_platforms_checked"`

	// EmailsFound holds email-derived exposure signals.
	EmailsFound []EmailFinding `json:"emails_found"`

	// NamesFound holds heuristic personal-identifier proxies. It is seeded
	// from the handle's local part; these are not verified names.
	NamesFound []string `json:"names_found"`

	// Summary aggregates the category counts.
	Summary ExposureSummary `json:"exposure_summary"`
}

// Validate checks the record's internal invariants. A violation is a
// programming error in the normalizer, not a data problem, so callers
// should treat a non-nil return as fatal.
func (n *NormalizedExposure) Validate() error {
	s := n.Summary
	if s.PersonalIdentifiers < 0 || s.ContactInformation < 0 || s.OnlineAccounts < 0 {
		return fmt.Errorf("negative exposure count: personal=%d contact=%d accounts=%d",
			s.PersonalIdentifiers, s.ContactInformation, s.OnlineAccounts)
	}
	if want := s.PersonalIdentifiers + s.ContactInformation + s.OnlineAccounts; s.TotalExposures != want {
		return fmt.Errorf("total_exposures=%d does not equal category sum %d", s.TotalExposures, want)
	}
	if got := len(n.PlatformsFound); got != s.OnlineAccounts {
		return fmt.Errorf("online_accounts=%d does not match %d platforms found", s.OnlineAccounts, got)
	}
	return nil
}

// FoundResults returns the probe results whose status is found.
func (n *NormalizedExposure) FoundResults() []ProbeResult {
	found := make([]ProbeResult, 0, len(n.PlatformsFound))
	for _, r := range n.AllPlatformsChecked {
		if r.Status.Found() {
			found = append(found, r)
		}
	}
	return found
}

// FailedCount returns how many probes ended in timeout or transport error.
func (n *NormalizedExposure) FailedCount() int {
	count := 0
	for _, r := range n.AllPlatformsChecked {
		if r.Status.Failed() {
			count++
		}
	}
	return count
}

// IdentifierType classifies the identifier behind a correlation match.
type IdentifierType string

// Identifier type constants.
const (
	// IdentifierUsername marks a match keyed by the scanned handle.
	IdentifierUsername IdentifierType = "username"
	// IdentifierEmail marks a match keyed by an email address.
	IdentifierEmail IdentifierType = "email"
)

// CorrelationMatch records one identifier resolving to two or more
// platforms. Matches of size below two are never emitted. Matches are
// recomputed fresh each scan and never persisted independently.
type CorrelationMatch struct {
	// Type classifies the identifier (username or email).
	Type IdentifierType `json:"type"`

	// Identifier is the shared value (handle or email address).
	Identifier string `json:"identifier"`

	// Platforms lists the platforms linked by the identifier, sorted.
	// Always has at least two entries.
	Platforms []string `json:"platforms"`
}
