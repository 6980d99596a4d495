// Package buildinfo reports the version baked into the binary by the Go
// toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Version returns the module version, falling back to the VCS revision for
// untagged builds and "dev" when neither is recorded.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	if rev := setting(info, "vcs.revision"); rev != "" {
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if setting(info, "vcs.modified") == "true" {
			rev += "-dirty"
		}
		return rev
	}
	return "dev"
}

// VersionWithTags appends the build tags recorded at compile time, if any.
func VersionWithTags() string {
	version := Version()
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	if tags := setting(info, "-tags"); tags != "" {
		return fmt.Sprintf("%s (tags: %s)", version, tags)
	}
	return version
}

func setting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
