// Package buildinfo carries version details stamped in at link time:
//
//	go build -ldflags "-X github.com/cleared-dev/conciliador/internal/buildinfo.Version=v1.2.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Summary is the one-line form shown by --version.
func Summary() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
