package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/traceprint/traceprint/internal/model"
)

// Default configuration values.
// These values are chosen for polite, low-volume probing of public
// profile pages; they are deliberately conservative.
const (
	// DefaultTimeout bounds each individual probe request. Public platforms
	// normally answer well under this; a generous value avoids marking slow
	// platforms as timed out.
	DefaultTimeout = 10 * time.Second

	// DefaultRequestDelay is slept between consecutive probes regardless of
	// outcome. This is an ethical-scraping discipline: a fixed, non-adaptive
	// delay, not a token bucket. One second keeps a full scan around the
	// size of the catalog in seconds and well below any platform's abuse
	// threshold.
	DefaultRequestDelay = 1 * time.Second

	// DefaultBatchSize is the number of handles scanned concurrently when a
	// list is supplied. Probing within one scan stays strictly sequential;
	// this only parallelizes across independent handles.
	DefaultBatchSize = 4

	// DefaultMaxBodySize limits the response body read per probe. Profile
	// pages fit comfortably in 5MB; larger responses are truncated to
	// prevent memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent is a browser-like User-Agent. Several platforms
	// serve interstitial or blocking pages to obvious bot agents, which
	// would skew classification.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap when --tor is used.
	DefaultTorStartupTimeout = 3 * time.Minute

	// AppName is the application name used for XDG directory paths.
	AppName = "traceprint"
)

// Default exposure-count risk thresholds.
//
// The thresholds are exposure COUNTS compared with >=, not percentages:
// risk is HIGH at DefaultHighThreshold exposures or more, MEDIUM at
// DefaultMediumThreshold or more, otherwise LOW.
const (
	DefaultLowThreshold    = 2
	DefaultMediumThreshold = 5
	DefaultHighThreshold   = 10
)

// Thresholds holds the exposure-count boundaries for the threshold scorer.
type Thresholds struct {
	// Low is informational; exposure below Medium is always LOW.
	Low int `yaml:"low"`

	// Medium is the minimum total exposure count classified MEDIUM.
	Medium int `yaml:"medium"`

	// High is the minimum total exposure count classified HIGH.
	High int `yaml:"high"`
}

// DefaultThresholds returns the default exposure-count thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Low:    DefaultLowThreshold,
		Medium: DefaultMediumThreshold,
		High:   DefaultHighThreshold,
	}
}

// Config holds all configuration options for traceprint.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Handles is the list of usernames or email addresses to scan.
	Handles []string

	// Timeout bounds each individual probe request.
	Timeout time.Duration

	// RequestDelay is the fixed sleep between consecutive probes.
	RequestDelay time.Duration

	// MaxPlatforms caps how many platforms one scan attempts. Zero means
	// the whole catalog. When the cap is reached the scan stops cleanly;
	// it is not an error.
	MaxPlatforms int

	// MaxBodySize limits the response body size in bytes per probe.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with probe requests.
	UserAgent string

	// BatchSize is the number of concurrent scans for multi-handle runs.
	BatchSize int

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is the path to the YAML configuration file. If empty,
	// the tool searches .traceprint.yaml in the current directory, then the
	// XDG config directory.
	ConfigFilePath string

	// Platforms is the active platform catalog, defaults merged with any
	// file overrides. Read-only after startup.
	Platforms []model.PlatformDescriptor

	// PlatformNames restricts the scan to the named platforms, in the
	// order given. Empty means the whole catalog. Names missing from the
	// catalog are still probed and recorded as invalid_platform so the
	// report shows exactly what was asked for.
	PlatformNames []string

	// RiskThresholds are the exposure-count boundaries for the threshold
	// scorer.
	RiskThresholds Thresholds

	// JSONReport enables JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output. Mutually exclusive
	// with JSONReport.
	MarkdownReport bool

	// ReportFile, when set, receives the report instead of stdout.
	ReportFile string

	// DBDir is the directory for the SQLite scan-history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB controls whether scan summaries are persisted for the
	// history command.
	SaveToDB bool

	// UseTor starts an embedded Tor daemon and routes probes through it.
	UseTor bool

	// ProxyAddress, when set, routes probes through an external SOCKS5
	// proxy at "host:port" instead of connecting directly.
	ProxyAddress string

	// TorStartupTimeout bounds the embedded Tor bootstrap. Only used when
	// UseTor is true.
	TorStartupTimeout time.Duration

	// EmailAPIKey is the Abstract email-validation API key. When empty the
	// deliverability check reports "skipped" and the scan continues.
	EmailAPIKey string

	// OpenAIAPIKey enables the LLM-backed prose summary. When empty the
	// deterministic fallback text is used; structured scores are never
	// affected either way.
	OpenAIAPIKey string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeouts, delays, the
// platform catalog). This also serves as documentation of the defaults.
func NewConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		RequestDelay:      DefaultRequestDelay,
		MaxBodySize:       DefaultMaxBodySize,
		UserAgent:         DefaultUserAgent,
		BatchSize:         DefaultBatchSize,
		Platforms:         DefaultPlatforms(),
		RiskThresholds:    DefaultThresholds(),
		TorStartupTimeout: DefaultTorStartupTimeout,
		EmailAPIKey:       os.Getenv("TRACEPRINT_EMAIL_API_KEY"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
	}
}

// XDGDataDir returns the XDG data directory for traceprint.
// On Linux: ~/.local/share/traceprint
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for traceprint.
// On Linux: ~/.config/traceprint
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scanning begins.
// We return the first error found rather than collecting all errors
// because fixing one often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Handles) == 0 {
		return ErrNoHandle
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}
	if c.MaxPlatforms < 0 {
		return ErrInvalidMaxPlatforms
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingProxyModes
	}

	t := c.RiskThresholds
	if t.Low < 0 || t.Medium <= t.Low || t.High <= t.Medium {
		return ErrInvalidThresholds
	}

	for _, p := range c.Platforms {
		if p.Name == "" || p.URLTemplate == "" {
			return ErrInvalidPlatform
		}
	}

	return nil
}
