package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/centreon/engine-rpc/internal/config"
	"github.com/centreon/engine-rpc/internal/paths"
	"github.com/centreon/engine-rpc/internal/rpcerr"
)

const configUsage = "engine-rpc: usage: engine-rpc config <path|init [--force]|show>"

func runConfigCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, configUsage)
		return rpcerr.ExitUsageErr
	}

	switch args[0] {
	case "path":
		if len(args) != 1 {
			fmt.Fprintln(stderr, configUsage)
			return rpcerr.ExitUsageErr
		}
		fmt.Fprintln(stdout, paths.ConfigFile())
		return rpcerr.ExitOK
	case "init":
		return runConfigInit(args[1:], stdout, stderr)
	case "show":
		if len(args) != 1 {
			fmt.Fprintln(stderr, configUsage)
			return rpcerr.ExitUsageErr
		}
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(stderr, "engine-rpc: %v\n", err)
			return rpcerr.ExitInternal
		}
		if err := toml.NewEncoder(stdout).Encode(cfg); err != nil {
			fmt.Fprintf(stderr, "engine-rpc: encoding config: %v\n", err)
			return rpcerr.ExitInternal
		}
		return rpcerr.ExitOK
	default:
		fmt.Fprintf(stderr, "engine-rpc: unknown config command: %s\n", args[0])
		fmt.Fprintln(stderr, configUsage)
		return rpcerr.ExitUsageErr
	}
}

func runConfigInit(args []string, stdout, stderr io.Writer) int {
	force := false
	for _, arg := range args {
		if arg != "--force" {
			fmt.Fprintln(stderr, configUsage)
			return rpcerr.ExitUsageErr
		}
		force = true
	}

	path := paths.ConfigFile()
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			fmt.Fprintf(stderr, "engine-rpc: %s already exists (use --force to overwrite)\n", path)
			return rpcerr.ExitUsageErr
		}
		if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(stderr, "engine-rpc: %v\n", err)
			return rpcerr.ExitInternal
		}
	}

	if err := config.SaveTo(path, config.Default()); err != nil {
		fmt.Fprintf(stderr, "engine-rpc: %v\n", err)
		return rpcerr.ExitInternal
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return rpcerr.ExitOK
}
