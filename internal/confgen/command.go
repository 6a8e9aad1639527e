package confgen

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/centreon/engine-rpc/internal/logging"
	"github.com/centreon/engine-rpc/internal/rpcerr"
)

// Main runs the engine-confgen command line and returns the exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	defer logging.Flush()

	var (
		opts     Options
		dir      string
		logLevel int
	)
	fs := pflag.NewFlagSet("engine-confgen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	fs.StringVarP(&dir, "output", "o", "centreon-engine", "directory receiving the .cfg files")
	fs.IntVar(&opts.Hosts, "hosts", 10, "number of hosts")
	fs.IntVar(&opts.ServicesPerHost, "services-per-host", 5, "services attached to each host")
	fs.IntVar(&opts.PassiveHosts, "passive-hosts", 0, "hosts with active checks disabled")
	fs.IntVar(&opts.PassiveServices, "passive-services", 0, "services with active checks disabled")
	fs.IntVar(&opts.Hostgroups, "hostgroups", 0, "number of hostgroups")
	fs.StringVar(&opts.RootDir, "root-dir", "", "directory holding log/, lib/ and plugins/ (default: parent of --output)")
	fs.StringArrayVar(&opts.Modules, "module", nil, "broker module line, repeatable")
	fs.IntVar(&logLevel, "log-level", 0, "diagnostic log verbosity written to stderr")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return rpcerr.ExitOK
		}
		return rpcerr.ExitUsageErr
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "engine-confgen: unexpected argument %q\n", fs.Arg(0))
		return rpcerr.ExitUsageErr
	}
	if err := logging.Init(logLevel); err != nil {
		fmt.Fprintf(stderr, "engine-confgen: %v\n", err)
		return rpcerr.ExitUsageErr
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(stderr, "engine-confgen: %v\n", err)
		return rpcerr.ExitUsageErr
	}

	written, err := Generate(dir, opts)
	if err != nil {
		fmt.Fprintf(stderr, "engine-confgen: %v\n", err)
		return rpcerr.ExitInternal
	}
	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}
	return rpcerr.ExitOK
}
