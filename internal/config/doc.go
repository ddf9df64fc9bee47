// Package config provides configuration structures and utilities for
// traceprint. It defines the scan limits, risk thresholds, report
// preferences, and the default platform catalog with its classification
// policies, fingerprint phrase lists, and risk weights.
package config
