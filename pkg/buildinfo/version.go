// Package buildinfo holds the version stamped into setlist at build time:
//
//	go build -ldflags "-X github.com/matzehuels/setlist/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/setlist/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/setlist/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/setlist
package buildinfo

import "fmt"

// Set via -ldflags -X.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the version block printed by --version.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template of the root command.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}

// UserAgent identifies setlist to the collection backend, e.g.
// "setlist/v0.3.0 (abc1234)".
func UserAgent() string {
	if Commit == "none" || Commit == "" {
		return "setlist/" + Version
	}
	return fmt.Sprintf("setlist/%s (%s)", Version, Commit)
}
