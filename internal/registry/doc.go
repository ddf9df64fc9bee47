// Package registry provides ordered lookup over the platform catalog.
//
// The registry wraps the configured platform descriptors and answers the
// questions the rest of the scanner asks: which platforms exist and in
// what order, what is the profile URL for a handle on a platform, and
// what classification policy, category, and risk parameters a platform
// carries. Catalog order is preserved so probe order, reports, and
// stored history stay deterministic.
package registry
