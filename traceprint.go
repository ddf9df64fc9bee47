// Package traceprint exposes the digital footprint scanner as a library.
//
// The package wraps the internal pipeline behind three entry points:
// RunScan probes the platform catalog and returns the normalized exposure
// record, Score computes the weighted ensemble risk assessment, and
// DetectAnomalies runs the anomaly heuristics. Score and DetectAnomalies
// are pure over their input and safe to call repeatedly; RunScan performs
// network requests and honors context cancellation.
//
// Callers who need the full report shape (correlations, threshold bucket,
// prose summary, batch scanning) should drive the cmd/traceprint CLI or
// assemble the internal pipeline directly.
package traceprint

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/traceprint/traceprint/internal/anomaly"
	"github.com/traceprint/traceprint/internal/config"
	"github.com/traceprint/traceprint/internal/emailcheck"
	"github.com/traceprint/traceprint/internal/model"
	"github.com/traceprint/traceprint/internal/normalize"
	"github.com/traceprint/traceprint/internal/probe"
	"github.com/traceprint/traceprint/internal/registry"
	"github.com/traceprint/traceprint/internal/risk"
)

// RunScan probes the default platform catalog for the handle and returns
// the normalized exposure record. maxPlatforms caps how many platforms are
// checked (zero or negative means all); timeout bounds each individual
// request (zero means the default).
//
// The returned record is always complete: platforms that could not be
// reached appear with timeout or error status, and the summary invariants
// hold even when every probe failed. The only returned error is context
// cancellation, in which case the record covers the platforms probed
// before the cutoff.
func RunScan(ctx context.Context, handle string, maxPlatforms int, timeout time.Duration) (model.NormalizedExposure, error) {
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	reg := registry.New(config.DefaultPlatforms())
	client := &http.Client{}

	var findings []model.EmailFinding
	if strings.Contains(handle, "@") {
		checker := emailcheck.NewChecker(client, emailcheck.WithTimeout(timeout))
		_, findings = checker.Scan(ctx, handle)
	}

	engine := probe.NewEngine(client, reg,
		probe.WithTimeout(timeout),
		probe.WithMaxPlatforms(maxPlatforms),
	)
	results, err := engine.ProbeAll(ctx, handle)

	return normalize.Normalize(handle, findings, results), err
}

// Score computes the weighted ensemble risk assessment for a normalized
// exposure record using the default platform catalog's weights. It is
// deterministic: the same record always yields the same assessment.
func Score(exposure model.NormalizedExposure) model.RiskAssessment {
	scorer := risk.NewScorer(registry.New(config.DefaultPlatforms()))
	return scorer.Score(exposure, nil)
}

// DetectAnomalies runs the anomaly heuristics over a normalized exposure
// record. It is deterministic and performs no network requests.
func DetectAnomalies(exposure model.NormalizedExposure) model.AnomalyReport {
	return anomaly.Detect(exposure)
}
