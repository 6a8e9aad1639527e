package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/centreon/engine-rpc/internal/cache"
	"github.com/centreon/engine-rpc/internal/config"
	"github.com/centreon/engine-rpc/internal/rpcerr"
)

func runCompletionCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "engine-rpc: usage: engine-rpc completion <bash|zsh|fish>")
		return rpcerr.ExitUsageErr
	}

	script, ok := completionScripts[strings.ToLower(args[0])]
	if !ok {
		fmt.Fprintf(stderr, "engine-rpc: unknown shell for completion: %s\n", args[0])
		return rpcerr.ExitUsageErr
	}

	_, _ = io.WriteString(stdout, script)
	return rpcerr.ExitOK
}

// runInternalCompletion answers the queries issued by the completion
// scripts. Extra arguments are engine-rpc schema flags (--proto, ...) so
// the completed names match the schema the user is working with.
func runInternalCompletion(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "engine-rpc: usage: engine-rpc __complete <methods|flags> [schema flags]")
		return rpcerr.ExitUsageErr
	}

	switch args[0] {
	case "methods":
		return completeMethods(args[1:], stdout, stderr)
	case "flags":
		if len(args) != 1 {
			fmt.Fprintln(stderr, "engine-rpc: usage: engine-rpc __complete flags")
			return rpcerr.ExitUsageErr
		}
		var opts options
		newFlagSet(&opts, config.Default()).VisitAll(func(f *pflag.Flag) {
			if f.Shorthand != "" {
				fmt.Fprintf(stdout, "-%s\n", f.Shorthand)
			}
			fmt.Fprintf(stdout, "--%s\n", f.Name)
		})
		return rpcerr.ExitOK
	default:
		fmt.Fprintf(stderr, "engine-rpc: unknown completion query: %s\n", args[0])
		return rpcerr.ExitUsageErr
	}
}

func completeMethods(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	cmd, err := parseArgs(args, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "engine-rpc: %v\n", err)
		return rpcerr.ExitCode(err)
	}

	var key cache.Key
	if cmd.proto != "" {
		if key, err = cache.KeyFor(cmd.proto, cmd.service, cmd.importPaths); err == nil {
			if names, ok := cache.GetNames(key); ok {
				printLines(stdout, names)
				return rpcerr.ExitOK
			}
		}
	}

	reg, err := loadRegistry(cmd.proto, cmd.importPaths, cmd.service)
	if err != nil {
		fmt.Fprintf(stderr, "engine-rpc: %v\n", err)
		return rpcerr.ExitInternal
	}
	names := slices.Collect(reg.Names())
	if key.Proto != "" {
		if err := cache.PutNames(key, names, cache.DefaultTTL); err != nil {
			klog.V(1).InfoS("method cache not written", "err", err)
		}
	}
	printLines(stdout, names)
	return rpcerr.ExitOK
}

func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
