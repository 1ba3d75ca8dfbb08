// Package version holds the build version of the bridges CLI and the semver
// parsing shared with bridge construction.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Set at build time with -ldflags "-X bridges/internal/version.Version=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info is the version report printed by `bridges version`.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Base      string `json:"base" yaml:"base"`
	GitCommit string `json:"gitCommit" yaml:"git_commit"`
	BuildDate string `json:"buildDate" yaml:"build_date"`
	GoVersion string `json:"goVersion" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Parse validates v as a semantic version. A leading "v" and missing minor
// or patch components are accepted.
func Parse(v string) (*semver.Version, error) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", v, err)
	}
	return sv, nil
}

// GetVersion returns the build version string.
func GetVersion() string {
	return Version
}

// GetBaseVersion returns major.minor.patch of the build version, dropping
// prerelease and metadata. An unparsable version is returned unchanged.
func GetBaseVersion() string {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	base, _ := sv.SetPrerelease("")
	base, _ = base.SetMetadata("")
	return base.String()
}

// GetInfo reports the build. It fails when Version is not valid semver.
func GetInfo() (*Info, error) {
	if _, err := Parse(Version); err != nil {
		return nil, err
	}
	return &Info{
		Version:   Version,
		Base:      GetBaseVersion(),
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}, nil
}

// GetDetailedVersion renders Info as the multi-line text shown by
// `bridges version`.
func GetDetailedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("bridges v%s (%v)", Version, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "bridges v%s\n", info.Version)
	if commit := info.GitCommit; commit != "unknown" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		fmt.Fprintf(&sb, "Commit: %s\n", commit)
	}
	if info.BuildDate != "unknown" {
		fmt.Fprintf(&sb, "Built: %s\n", info.BuildDate)
	}
	fmt.Fprintf(&sb, "Go: %s %s", info.GoVersion, info.Platform)
	return sb.String()
}
