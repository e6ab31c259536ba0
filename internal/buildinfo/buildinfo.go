// Package buildinfo reports how the ai-commit binary was built.
//
// Release builds get their values from linker flags forwarded by main through
// Set. Binaries built with go install fall back to what the Go toolchain
// recorded in the executable.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

const (
	devVersion = "dev"
	unknown    = "unknown"
	noCommit   = "none"

	shortCommitLen = 12
)

// Info is the build metadata printed by --version.
type Info struct {
	Version   string
	Commit    string
	Date      string
	BuiltBy   string
	GoVersion string
	Dirty     bool
}

var linked = Info{Version: devVersion, Commit: noCommit, Date: unknown, BuiltBy: unknown}

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Set stores the values injected by the linker.
func Set(version, commit, date, builtBy string) {
	linked = Info{Version: version, Commit: commit, Date: date, BuiltBy: builtBy}
}

// Version returns the linked version, or the module version for go install builds.
func Version() string {
	return Current().Version
}

// Current returns the linked metadata with the gaps filled from the
// toolchain's embedded build information.
func Current() Info {
	info := linked
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}

	info.GoVersion = bi.GoVersion
	if info.Version == devVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == noCommit {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == unknown {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if info.BuiltBy == unknown && bi.GoVersion != "" {
		info.BuiltBy = bi.GoVersion
	}
	return info
}

// ShortCommit returns the first twelve characters of the commit, marked
// "-dirty" when the tree had local changes.
func (i Info) ShortCommit() string {
	c := i.Commit
	if len(c) > shortCommitLen {
		c = c[:shortCommitLen]
	}
	if i.Dirty {
		c += "-dirty"
	}
	return c
}

// String renders the --version output.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ai-commit version %s\n", i.Version)
	fmt.Fprintf(&sb, "commit: %s\n", i.ShortCommit())
	fmt.Fprintf(&sb, "built at: %s\n", i.Date)
	fmt.Fprintf(&sb, "built by: %s\n", i.BuiltBy)
	if i.GoVersion != "" && i.GoVersion != i.BuiltBy {
		fmt.Fprintf(&sb, "go: %s\n", i.GoVersion)
	}
	return sb.String()
}
