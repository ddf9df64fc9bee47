// Package risk scores a normalized exposure record.
//
// Two independent scorers share the same input. The threshold scorer
// buckets the total exposure count against configurable thresholds and
// answers LOW, MEDIUM, or HIGH. The ensemble scorer combines four
// weighted sub-scores (platform count and diversity, per-platform risk
// weights, sensitivity-weighted exposure, cross-platform correlation)
// into a 0-100 score with a confidence value, a four-band risk level,
// and a capped list of recommendations.
//
// Both scorers are pure: the same input always produces the same
// output, and neither touches the network or any stored state.
package risk
