// Package buildinfo exposes version metadata injected at build time.
package buildinfo

import "fmt"

// Set via -ldflags at release build time; defaults cover source builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template returns the text shown by the --version flag.
func Template() string {
	return fmt.Sprintf("depscope %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
