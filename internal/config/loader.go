package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/traceprint/traceprint/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".traceprint.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .traceprint.yaml configuration file.
// All fields are optional; unset fields keep their built-in defaults.
type File struct {
	// Scan contains the probe settings.
	Scan ScanSettings `yaml:"scan,omitempty"`

	// Thresholds overrides the exposure-count risk thresholds.
	Thresholds *Thresholds `yaml:"thresholds,omitempty"`

	// Platforms adds or overrides platform descriptors. Entries are
	// merged into the built-in catalog by name: a matching name replaces
	// the built-in descriptor, a new name appends to the catalog.
	Platforms []PlatformOverride `yaml:"platforms,omitempty"`
}

// ScanSettings holds the probe-related settings of the configuration file.
type ScanSettings struct {
	// TimeoutSeconds is the per-probe HTTP timeout in seconds.
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"`

	// RequestDelayMS is the fixed delay between probes in milliseconds.
	RequestDelayMS int `yaml:"requestDelayMS,omitempty"`

	// MaxPlatforms caps how many platforms are probed. Zero means all.
	MaxPlatforms int `yaml:"maxPlatforms,omitempty"`

	// UserAgent overrides the User-Agent header sent with probes.
	UserAgent string `yaml:"userAgent,omitempty"`

	// BatchSize is the number of handles scanned concurrently.
	BatchSize int `yaml:"batchSize,omitempty"`
}

// PlatformOverride is one platform entry in the configuration file.
// It mirrors model.PlatformDescriptor but keeps every field optional so
// a partial override only touches the fields it names.
type PlatformOverride struct {
	Name            string   `yaml:"name"`
	URLTemplate     string   `yaml:"urlTemplate,omitempty"`
	Policy          string   `yaml:"policy,omitempty"`
	Category        string   `yaml:"category,omitempty"`
	NotFoundPhrases []string `yaml:"notFoundPhrases,omitempty"`
	RiskWeight      *float64 `yaml:"riskWeight,omitempty"`
	Sensitivity     *float64 `yaml:"sensitivity,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .traceprint.yaml in the current directory
// 3. Look for .traceprint.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// ApplyTo merges the file's settings into cfg. Only fields the file sets
// are touched; everything else keeps its current value.
func (cf *File) ApplyTo(cfg *Config) {
	if cf.Scan.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(cf.Scan.TimeoutSeconds) * time.Second
	}
	if cf.Scan.RequestDelayMS > 0 {
		cfg.RequestDelay = time.Duration(cf.Scan.RequestDelayMS) * time.Millisecond
	}
	if cf.Scan.MaxPlatforms > 0 {
		cfg.MaxPlatforms = cf.Scan.MaxPlatforms
	}
	if cf.Scan.UserAgent != "" {
		cfg.UserAgent = cf.Scan.UserAgent
	}
	if cf.Scan.BatchSize > 0 {
		cfg.BatchSize = cf.Scan.BatchSize
	}
	if cf.Thresholds != nil {
		cfg.RiskThresholds = *cf.Thresholds
	}
	for _, po := range cf.Platforms {
		mergePlatform(cfg, po)
	}
}

// mergePlatform replaces or appends one catalog entry by name.
func mergePlatform(cfg *Config, po PlatformOverride) {
	if po.Name == "" {
		return
	}
	idx := -1
	for i, p := range cfg.Platforms {
		if p.Name == po.Name {
			idx = i
			break
		}
	}

	var desc model.PlatformDescriptor
	if idx >= 0 {
		desc = cfg.Platforms[idx]
	} else {
		desc = model.PlatformDescriptor{
			Name:        po.Name,
			Policy:      model.PolicyFingerprint,
			RiskWeight:  0.5,
			Sensitivity: 0.5,
		}
	}

	if po.URLTemplate != "" {
		desc.URLTemplate = po.URLTemplate
	}
	if po.Policy != "" {
		desc.Policy = model.ParseClassificationPolicy(po.Policy)
	}
	if po.Category != "" {
		desc.Category = model.PlatformCategory(po.Category)
	}
	if len(po.NotFoundPhrases) > 0 {
		desc.NotFoundPhrases = po.NotFoundPhrases
	}
	if po.RiskWeight != nil {
		desc.RiskWeight = *po.RiskWeight
	}
	if po.Sensitivity != nil {
		desc.Sensitivity = *po.Sensitivity
	}

	if idx >= 0 {
		cfg.Platforms[idx] = desc
	} else {
		cfg.Platforms = append(cfg.Platforms, desc)
	}
}

// SampleConfig is the annotated configuration written by the init command.
const SampleConfig = `# traceprint configuration file
#
# Place this file as .traceprint.yaml in the working directory or in the
# XDG config directory. All settings are optional.

scan:
  # Per-probe HTTP timeout in seconds.
  timeoutSeconds: 10
  # Fixed delay between probes in milliseconds. Keep this at or above
  # 1000 to avoid hammering the platforms.
  requestDelayMS: 1000
  # Cap on how many platforms are probed. 0 scans the whole catalog.
  maxPlatforms: 0
  # Number of handles scanned concurrently in batch mode.
  batchSize: 4

# Exposure-count thresholds for the quick risk classification.
thresholds:
  low: 2
  medium: 5
  high: 10

# Platform overrides. A matching name replaces the built-in entry,
# a new name appends to the catalog.
#platforms:
#  - name: example
#    urlTemplate: https://example.com/users/%s
#    policy: fingerprint
#    category: social_media
#    notFoundPhrases:
#      - "page not found"
#    riskWeight: 0.5
#    sensitivity: 0.5
`
