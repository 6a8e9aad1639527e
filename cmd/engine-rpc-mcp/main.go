package main

import (
	"os"

	"github.com/centreon/engine-rpc/internal/mcpbridge"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(mcpbridge.Main(os.Args[1:], version, os.Stderr, (*mcpbridge.Bridge).ServeStdio))
}
