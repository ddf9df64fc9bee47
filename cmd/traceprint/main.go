// Package main provides the entry point for the traceprint CLI.
//
// traceprint maps the public digital footprint of a username or email
// address. It probes public platforms for matching profiles, normalizes
// the findings, and scores the resulting identity exposure.
//
// Usage:
//
//	traceprint scan <handle>
//	traceprint scan alice bob carol
//	traceprint history <handle>
//
// See --help for all available options.
package main

// main is the entry point for traceprint.
func main() {
	Execute()
}
