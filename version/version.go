// Package version exposes build information embedded at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/permkit/version.Version=1.2.0"
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version of the build. Defaults to "dev"
	// for builds without -ldflags.
	Version = "dev"
	// GitCommit is the commit hash the binary was built from.
	GitCommit = ""
	// BuildTime is the RFC 3339 timestamp of the build.
	BuildTime = ""
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build metadata, filling the Go version from the
// embedded module build info when available.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
	}
	return info
}

// String renders the version as "1.2.0 (abc1234)" or just the version
// when no commit is recorded.
func (i Info) String() string {
	if i.GitCommit == "" {
		return i.Version
	}
	commit := i.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}
