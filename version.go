package shelterapi

import (
	"runtime"
	"runtime/debug"
	"sync"
)

const modulePath = "github.com/ambiyansyah-risyal/shelterapi"

// Version is the release of this module. Release builds of the shelters
// command set it with -ldflags "-X <module>.Version=...".
var Version = "v0.3.0"

// BuildInfo describes the running build of the module.
type BuildInfo struct {
	Version  string
	Revision string
	Modified bool
	Go       string
}

var buildInfo = sync.OnceValue(readBuildInfo)

// ReadBuildInfo returns the module version together with the VCS stamp the
// toolchain embeds in binaries. When the module is linked as a dependency,
// its version from the build list replaces Version.
func ReadBuildInfo() BuildInfo {
	return buildInfo()
}

func readBuildInfo() BuildInfo {
	info := BuildInfo{Version: Version, Go: runtime.Version()}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if bi.Main.Path != modulePath {
		for _, dep := range bi.Deps {
			if dep.Path == modulePath && dep.Version != "" && dep.Version != "(devel)" {
				info.Version = dep.Version
			}
		}
		return info
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func (b BuildInfo) String() string {
	s := "shelterapi " + b.Version
	if b.Revision != "" {
		rev := b.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if b.Modified {
			rev += "-dirty"
		}
		s += " (" + rev + ")"
	}
	return s + " " + b.Go
}

// UserAgent is sent on requests that do not carry their own User-Agent.
func UserAgent() string {
	return "shelterapi/" + ReadBuildInfo().Version
}
