// Package buildinfo holds version metadata set with -ldflags -X at build time.
package buildinfo

// Defaults are what a plain `go build` produces.
var (
	Version   = "dev"
	GitCommit = "unknown"
)
