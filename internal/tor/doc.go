// Package tor provides optional Tor network connectivity for traceprint.
//
// Platform probing reveals the operator's IP address to every platform
// checked. Routing probes through Tor hides the operator's network
// location from the probed platforms. This package wraps the tornago
// library for embedded daemon management and golang.org/x/net/proxy for
// SOCKS5 connectivity.
//
// Design decision: We use tornago's embedded daemon rather than requiring
// an external Tor installation because:
//  1. It lets traceprint work "out of the box" with a single --tor flag
//  2. It provides clean lifecycle control (start before scan, stop after)
//  3. Users who run their own daemon can still point --tor-proxy at it
//
// The package is designed to be used with dependency injection - create a
// Client and pass its HTTP client to the probe engine rather than using
// global state.
package tor
