// Package summarize renders a risk assessment into free-text prose.
//
// The prose layer is a side channel: it explains the structured scores
// but never influences them. The Summarizer interface keeps the LLM
// dependency behind one narrow seam with a deterministic fallback, so
// tests and offline runs produce stable text and an unavailable API
// degrades to the canned summary instead of failing the scan.
package summarize
