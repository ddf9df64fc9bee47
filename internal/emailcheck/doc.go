// Package emailcheck scans an email address for public exposure.
//
// The checks are cheap and non-intrusive: syntax validation,
// disposable-domain detection, an optional deliverability verdict from
// the Abstract validation API when an API key is configured, and a
// Gravatar lookup. A Gravatar hit is real exposure: the address maps to
// a public profile and avatar. When an avatar exists its EXIF block is
// inspected for location and device metadata the owner may not know is
// published.
//
// All checks are best effort. A failed or skipped check is recorded in
// the check list but never aborts the scan.
package emailcheck
