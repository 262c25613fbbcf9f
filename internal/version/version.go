package version

// Version contains the application version information.
// Set via build-time ldflags in release builds:
// go build -ldflags "-X github.com/rich-iannone/great-docs/internal/version.Version=v0.3.0".
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by `great-docs version`.
func String() string {
	return "great-docs " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
