package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is set at build time with -ldflags.
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("queryhelper %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// Pairs returns the fields as labelled pairs for display.
func (i Info) Pairs() [][2]string {
	return [][2]string{
		{"Version", i.Version},
		{"Build date", i.BuildDate},
		{"Git commit", i.GitCommit},
		{"Platform", i.Platform},
		{"Go", i.GoVersion},
	}
}
