package model

import (
	"strconv"
	"strings"
)

// ClassificationPolicy selects how a platform's probe response is turned
// into an existence verdict.
//
// Design decision: The policy is an explicit tag on PlatformDescriptor
// rather than a free-floating set of platform names. Adding a platform
// therefore cannot forget to register its policy: every descriptor carries
// one, and the zero value falls back to the safer Fingerprint policy.
type ClassificationPolicy string

const (
	// PolicyFingerprint classifies by HTTP status first, then by scanning
	// the lower-cased response body for platform-specific "not found"
	// phrases. This is the default because a bare 200 is unreliable on
	// platforms that serve custom error pages with a 200 status.
	PolicyFingerprint ClassificationPolicy = "fingerprint"

	// PolicyStatusOnly classifies purely by HTTP status code.
	// Some platforms (login walls, consent pages) return generic 200 pages
	// that contain "not found"-style text even for existing profiles, so
	// text fingerprinting on them produces false negatives. For those the
	// status code is authoritative: 200 is found, 404 is not found.
	PolicyStatusOnly ClassificationPolicy = "status_only"
)

// String returns the string representation of the ClassificationPolicy.
func (p ClassificationPolicy) String() string {
	if p == "" {
		return string(PolicyFingerprint)
	}
	return string(p)
}

// IsValid returns true if this is a known policy.
func (p ClassificationPolicy) IsValid() bool {
	switch p {
	case PolicyFingerprint, PolicyStatusOnly:
		return true
	default:
		return false
	}
}

// ParseClassificationPolicy converts a string to ClassificationPolicy.
// Unknown strings map to PolicyFingerprint, the conservative default.
func ParseClassificationPolicy(s string) ClassificationPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "status_only", "status-only", "statusonly", "status":
		return PolicyStatusOnly
	default:
		return PolicyFingerprint
	}
}

// PlatformCategory groups platforms by the kind of presence they represent.
// Categories feed the diversity term of the ensemble scorer and several
// anomaly rules (e.g. professional + entertainment co-occurrence).
type PlatformCategory string

// Platform category constants.
const (
	// CategorySocialMedia covers general-purpose social networks.
	CategorySocialMedia PlatformCategory = "social_media"
	// CategoryProfessional covers career and business networks.
	CategoryProfessional PlatformCategory = "professional"
	// CategoryDeveloper covers code hosting and technical Q&A sites.
	CategoryDeveloper PlatformCategory = "developer"
	// CategoryCreative covers publishing and image sharing sites.
	CategoryCreative PlatformCategory = "creative"
	// CategoryEntertainment covers streaming and media platforms.
	CategoryEntertainment PlatformCategory = "entertainment"
)

// String returns the string representation of the PlatformCategory.
func (c PlatformCategory) String() string {
	if c == "" {
		return string(CategorySocialMedia)
	}
	return string(c)
}

// PlatformDescriptor describes one supported platform. Descriptors are
// loaded once at process start and owned by the registry; they are never
// mutated afterwards, so they are safe to share across concurrent scans.
type PlatformDescriptor struct {
	// Name is the unique lower-case platform key (e.g. "github").
	Name string `yaml:"name" json:"name"`

	// URLTemplate is the profile URL pattern with a single %s placeholder
	// for the handle (e.g. "https://github.com/%s").
	URLTemplate string `yaml:"url_template" json:"url_template"`

	// Policy selects the existence-classification policy for this platform.
	Policy ClassificationPolicy `yaml:"policy" json:"policy"`

	// Category groups the platform for diversity scoring and anomaly rules.
	Category PlatformCategory `yaml:"category" json:"category"`

	// NotFoundPhrases are the lower-case body fragments that mark a
	// "profile does not exist" page. Only consulted under PolicyFingerprint.
	// These lists are tunable data, not hard-coded truth; deployments are
	// expected to adjust them as platforms change their error pages.
	NotFoundPhrases []string `yaml:"not_found_phrases,omitempty" json:"not_found_phrases,omitempty"`

	// RiskWeight reflects the platform's breach history and abuse surface,
	// in [0, 1]. Unknown platforms default to 0.5 in the scorer.
	RiskWeight float64 `yaml:"risk_weight" json:"risk_weight"`

	// Sensitivity reflects how much personal data an account on this
	// platform typically exposes, in [0, 1].
	Sensitivity float64 `yaml:"sensitivity" json:"sensitivity"`
}

// ProfileURL renders the profile URL for the given handle.
func (d PlatformDescriptor) ProfileURL(handle string) string {
	return strings.Replace(d.URLTemplate, "%s", handle, 1)
}

// ProbeStatus is the terminal outcome of one existence probe.
//
// Design decision: We use a string type rather than an int enum because the
// unknown_status variant carries the HTTP status code in its value
// (e.g. "unknown_status_403"), matching the shape reports and the scan
// database store. Helper methods recover the structured information.
type ProbeStatus string

// Probe status constants.
const (
	// StatusFound means the profile exists on the platform.
	StatusFound ProbeStatus = "found"
	// StatusNotFound means the platform reported no such profile.
	StatusNotFound ProbeStatus = "not_found"
	// StatusTimeout means the request exceeded its per-request deadline.
	StatusTimeout ProbeStatus = "timeout"
	// StatusError means the request failed in transport before a response.
	StatusError ProbeStatus = "error"
	// StatusInvalidPlatform means the platform is not in the registry.
	// The probe still records the attempt so "checked" counts stay honest.
	StatusInvalidPlatform ProbeStatus = "invalid_platform"
)

// unknownStatusPrefix prefixes the ambiguous-classification variant.
const unknownStatusPrefix = "unknown_status_"

// UnknownStatus returns the ProbeStatus for an HTTP status code that the
// classification policy does not recognize. The code is surfaced to the
// caller rather than guessed into found/not_found.
func UnknownStatus(code int) ProbeStatus {
	return ProbeStatus(unknownStatusPrefix + strconv.Itoa(code))
}

// String returns the string representation of the ProbeStatus.
func (s ProbeStatus) String() string {
	return string(s)
}

// Found reports whether the probe confirmed an existing profile.
func (s ProbeStatus) Found() bool {
	return s == StatusFound
}

// Failed reports whether the probe failed in transport (timeout or error)
// rather than producing a classification.
func (s ProbeStatus) Failed() bool {
	return s == StatusTimeout || s == StatusError
}

// IsUnknown reports whether the status is an unknown_status variant.
func (s ProbeStatus) IsUnknown() bool {
	return strings.HasPrefix(string(s), unknownStatusPrefix)
}

// HTTPStatusCode returns the HTTP status code embedded in an
// unknown_status value. The second return is false for all other statuses.
func (s ProbeStatus) HTTPStatusCode() (int, bool) {
	if !s.IsUnknown() {
		return 0, false
	}
	code, err := strconv.Atoi(strings.TrimPrefix(string(s), unknownStatusPrefix))
	if err != nil {
		return 0, false
	}
	return code, true
}

// ProbeResult is the outcome of one existence probe against one platform.
// Results are created by the probe engine and never mutated afterwards.
type ProbeResult struct {
	// Platform is the platform key that was probed.
	Platform string `json:"platform"`

	// ProfileURL is the URL that was requested. Empty for invalid_platform.
	ProfileURL string `json:"url"`

	// Status is the terminal per-platform outcome.
	Status ProbeStatus `json:"status"`
}
