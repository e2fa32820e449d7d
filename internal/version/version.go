package version

// Version is overridden at build time with -ldflags "-X .../version.Version=x.y.z".
var Version = "0.1.0"

// FullVersion returns Version with a leading v.
func FullVersion() string {
	return "v" + Version
}
