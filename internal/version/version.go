// Package version reports how the prism binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	BuildTime time.Time `json:"build_time"`
	GoVersion string    `json:"go_version"`
	Platform  string    `json:"platform"`
	Dirty     bool      `json:"dirty"`
	Release   bool      `json:"release"`
}

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version of the application
	Version = "dev"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"

	// BuildTime is the time when the binary was built (RFC3339 format)
	BuildTime = "unknown"
)

// readBuildInfo is swapped out in tests.
var readBuildInfo = debug.ReadBuildInfo

// Get returns the build information of the running binary.
func Get() *BuildInfo {
	v := resolveVersion()
	return &BuildInfo{
		Version:   v,
		GitCommit: resolveCommit(),
		BuildTime: parseTime(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Dirty:     setting("vcs.modified") == "true",
		Release:   v != "dev" && !strings.HasPrefix(v, "dev-"),
	}
}

// Short returns a one-line version such as "v1.2.0 (abc1234)".
func (b *BuildInfo) Short() string {
	if len(b.GitCommit) < 7 || b.GitCommit == "unknown" {
		return b.Version
	}
	short := b.GitCommit[:7]
	if !b.Release {
		return "dev-" + short
	}
	return fmt.Sprintf("%s (%s)", b.Version, short)
}

// String returns the multi-line text form printed by `prism version`.
func (b *BuildInfo) String() string {
	var sb strings.Builder
	sb.WriteString("prism " + b.Short())
	if b.Dirty {
		sb.WriteString(" (dirty)")
	}
	sb.WriteString("\n")
	if !b.BuildTime.IsZero() {
		fmt.Fprintf(&sb, "Built: %s\n", b.BuildTime.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "Go: %s\n", b.GoVersion)
	fmt.Fprintf(&sb, "Platform: %s\n", b.Platform)
	return sb.String()
}

func resolveVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}

	if info, ok := readBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
		if rev := setting("vcs.revision"); len(rev) >= 7 {
			return "dev-" + rev[:7]
		}
	}

	return "dev"
}

func resolveCommit() string {
	if GitCommit != "" && GitCommit != "unknown" {
		return GitCommit
	}
	if rev := setting("vcs.revision"); rev != "" {
		return rev
	}
	return "unknown"
}

func setting(key string) string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// parseTime parses an ISO 8601 time string, returns zero time on error
func parseTime(s string) time.Time {
	if s == "" || s == "unknown" {
		return time.Time{}
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
