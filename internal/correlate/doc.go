// Package correlate finds identifiers that resolve to more than one
// platform in a normalized exposure record.
//
// A handle present on several platforms, or an email surfacing on
// several services, links those accounts together. Each such identifier
// becomes one CorrelationMatch; matches with fewer than two platforms
// are never emitted.
package correlate
