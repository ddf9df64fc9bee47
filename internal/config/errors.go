package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoHandle is returned when no handle to scan is specified.
	ErrNoHandle = errors.New("no handle specified: provide a username or email address")

	// ErrInvalidTimeout is returned when the probe timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRequestDelay is returned when the inter-request delay is
	// negative. Use 0 for no delay between probes.
	ErrInvalidRequestDelay = errors.New("invalid request delay: must be non-negative")

	// ErrInvalidMaxPlatforms is returned when the platform cap is negative.
	// Use 0 to scan the whole catalog.
	ErrInvalidMaxPlatforms = errors.New("invalid max platforms: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingProxyModes is returned when both the embedded Tor
	// daemon and an external proxy are requested.
	ErrConflictingProxyModes = errors.New("conflicting proxy modes: --tor and --proxy cannot be used together")

	// ErrInvalidThresholds is returned when the exposure-count thresholds
	// are not strictly increasing (low < medium < high).
	ErrInvalidThresholds = errors.New("invalid risk thresholds: must satisfy 0 <= low < medium < high")

	// ErrInvalidPlatform is returned when a platform descriptor lacks a
	// name or URL template.
	ErrInvalidPlatform = errors.New("invalid platform descriptor: name and url_template are required")
)
