// Package version carries build metadata for the locsync binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/oukeidos/locsync/internal/version.Version=...".
var (
	Version   = "0.1.0"
	Commit    = ""
	BuildDate = ""
)

var readBuildInfo = debug.ReadBuildInfo

// vcs fills unset Commit and BuildDate from the VCS stamp the go tool
// embeds in module builds.
func vcs() (commit, date string) {
	commit, date = Commit, BuildDate
	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "":
				commit = s.Value
			case s.Key == "vcs.time" && date == "":
				date = s.Value
			}
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return commit, date
}

// Info returns the multi-line string printed by "locsync version".
func Info() string {
	commit, date := vcs()
	return fmt.Sprintf("locsync %s\ncommit: %s\nbuild: %s", Version, commit, date)
}
