package main

import (
	"os"

	"github.com/centreon/engine-rpc/internal/confgen"
)

func main() {
	os.Exit(confgen.Main(os.Args[1:], os.Stdout, os.Stderr))
}
