package main

import (
	"os"

	"github.com/centreon/engine-rpc/internal/cli"
)

// version is set at link time with -ldflags "-X main.version=...".
var version string

func main() {
	cli.SetVersion(version)
	code := cli.Run(os.Args[1:])
	os.Exit(code)
}
