// Package model defines the core data structures used throughout traceprint.
//
// This package contains the following main types:
//   - PlatformDescriptor: A supported platform with its URL template and
//     existence-classification policy
//   - ProbeResult: The outcome of one existence probe against one platform
//   - NormalizedExposure: The canonical per-scan exposure record
//   - RiskAssessment / AnomalyReport / CorrelationMatch: Derived analysis results
//   - ScanReport: The aggregate produced by one pipeline run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (probe, normalize, risk, anomaly, report)
// need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
