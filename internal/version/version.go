// Package version holds build metadata stamped via -ldflags, e.g.
//
//	-X github.com/shoplens/discovery/internal/version.Version=v1.2.0
package version

var (
	Version = "dev"
	Commit  = "unknown"
)
