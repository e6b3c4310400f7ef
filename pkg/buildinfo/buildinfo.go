// Package buildinfo exposes version information injected at build time.
package buildinfo

// Build-time variables, set via -ldflags:
//
//	go build -ldflags "-X github.com/otherjamesbrown/sitebook-cli/pkg/buildinfo.Version=v1.2.3 ..."
var (
	// Version is the semantic version of the build.
	Version = "dev"

	// Commit is the git commit hash the binary was built from.
	Commit = "unknown"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Info describes a build of a sitebook component.
type Info struct {
	ServiceName string `json:"service_name"`
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	BuildTime   string `json:"build_time"`
}

// Get returns the build information for the named component.
func Get(serviceName string) Info {
	return Info{
		ServiceName: serviceName,
		Version:     Version,
		Commit:      Commit,
		BuildTime:   BuildTime,
	}
}
