package cli

import (
	"io"
	"os"
	"runtime/debug"
)

var (
	rootStdout   io.Writer = os.Stdout
	rootStderr   io.Writer = os.Stderr
	rootStdin    io.Reader = os.Stdin
	buildVersion           = "dev"
)

func init() {
	buildVersion = resolveBuildVersion(buildVersion)
}

// SetVersion overrides the version reported by --version. Called from main
// with the value injected at link time.
func SetVersion(v string) {
	if v != "" {
		buildVersion = v
	}
}

func resolveBuildVersion(defaultVersion string) string {
	if defaultVersion != "" && defaultVersion != "dev" {
		return defaultVersion
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return defaultVersion
	}
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return defaultVersion
	}
	return info.Main.Version
}
