package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const (
	// Version is the release of both binaries.
	Version = "1.0.0"

	// APIVersion prefixes the chart endpoints.
	APIVersion = "v1"
)

// Stamped at link time:
//
//	-ldflags "-X dispochart/pkg/contracts.BuildTime=... -X dispochart/pkg/contracts.GitCommit=..."
var (
	BuildTime = ""
	GitCommit = ""
)

var readBuildInfo = debug.ReadBuildInfo

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version      string `json:"version"`
	APIVersion   string `json:"api_version"`
	BuildTime    string `json:"build_time,omitempty"`
	GitCommit    string `json:"git_commit,omitempty"`
	Modified     bool   `json:"modified,omitempty"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
}

// GetVersionInfo reports the build. Link-time values take precedence over the
// VCS settings the toolchain embeds.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:      Version,
		APIVersion:   APIVersion,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders the info on one line, e.g.
// "dispochart v1.0.0 (go: go1.24.3, os: linux/amd64, built: ..., commit: 1a2b3c4d5e6f)".
func (v VersionInfo) String() string {
	parts := []string{
		"go: " + v.GoVersion,
		"os: " + v.OS + "/" + v.Architecture,
	}
	if v.BuildTime != "" {
		parts = append(parts, "built: "+v.BuildTime)
	}
	if v.GitCommit != "" {
		commit := v.GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		if v.Modified {
			commit += "-dirty"
		}
		parts = append(parts, "commit: "+commit)
	}
	return fmt.Sprintf("%s (%s)", GetVersionString(), strings.Join(parts, ", "))
}

// GetVersionString returns "dispochart v<Version>".
func GetVersionString() string {
	return "dispochart v" + Version
}

// GetFullVersionString is GetVersionInfo().String().
func GetFullVersionString() string {
	return GetVersionInfo().String()
}
