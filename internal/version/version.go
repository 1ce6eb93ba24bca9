package version

// Version is the current releasemate version. It is bumped by every release.
const Version = "0.1.0"

// FullVersion returns the version with the v prefix used by tags.
func FullVersion() string {
	return "v" + Version
}
