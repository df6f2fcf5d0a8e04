// Package version reports the rovr release string.
//
// Do not import any other rovr packages from here.
package version

import "runtime/debug"

// fallback is printed for source builds that carry no module version.
const fallback = "v0.3.0"

var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return fallback
}()
