// Package buildinfo holds the version stamped into tablescope at link time:
//
//	go build -ldflags "-X github.com/matzehuels/tablescope/pkg/buildinfo.Version=v0.4.0 \
//	    -X github.com/matzehuels/tablescope/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/tablescope/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Set via -ldflags; the defaults mark a local build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, shortCommit(), Date)
}

// UserAgent identifies tablescope in the preview host's Server header.
func UserAgent() string {
	return "tablescope/" + Version
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
