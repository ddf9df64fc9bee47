// Package probe implements the platform probing engine.
//
// The engine sends one HTTP GET per platform to the handle's candidate
// profile URL and classifies the response as found, not_found, timeout,
// error, or an unknown status. Classification follows the platform's
// policy: status-only platforms trust the HTTP status code alone, while
// fingerprint platforms additionally match known not-found phrases
// against the response body because they answer 200 for missing
// profiles.
//
// Probes run sequentially with a fixed delay between requests. The
// delay is deliberate rate limiting toward the scanned platforms, not
// an implementation detail, so it is configurable but never skipped.
package probe
