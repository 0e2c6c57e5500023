// Package version holds the build-time version string, normally overridden via
// -ldflags at build time.
package version

// Version is the executor's version, injected at build time.
var Version = "dev"
