package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info is the build information of the running binary.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// Get collects the link-time values and fills the gaps from the embedded
// build info.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		applySettings(&info, bi.Settings)
	}
	return info
}

func applySettings(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = shortCommit(s.Value)
			}
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildDate = t
				}
			}
		}
	}
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// Short returns "version-commit[-dirty]", or just the version without a
// commit.
func (i Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	s := i.Version + "-" + i.GitCommit
	if i.IsDirty {
		s += "-dirty"
	}
	return s
}

// String adds the build date to Short.
func (i Info) String() string {
	if i.BuildDate.IsZero() {
		return i.Short()
	}
	return fmt.Sprintf("%s (built %s)", i.Short(), i.BuildDate.UTC().Format(time.RFC3339))
}

// Fields returns the info as logger fields.
func (i Info) Fields() map[string]interface{} {
	return map[string]interface{}{
		"version":    i.Version,
		"git_commit": i.GitCommit,
		"go_version": i.GoVersion,
		"dirty":      i.IsDirty,
	}
}

// GetShortVersion returns Get().Short().
func GetShortVersion() string {
	return Get().Short()
}
