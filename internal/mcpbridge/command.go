package mcpbridge

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/centreon/engine-rpc/internal/config"
	"github.com/centreon/engine-rpc/internal/logging"
	"github.com/centreon/engine-rpc/internal/rpcclient"
	"github.com/centreon/engine-rpc/internal/rpcerr"
	"github.com/centreon/engine-rpc/internal/schema"
)

type commandOptions struct {
	host        string
	port        string
	timeout     time.Duration
	proto       string
	service     string
	importPaths []string
	logLevel    int
	version     bool
}

// Main parses the engine-rpc-mcp command line, builds the bridge and hands
// it to serve. It returns the exit code.
func Main(args []string, version string, stderr io.Writer, serve func(*Bridge) error) int {
	defer logging.Flush()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "engine-rpc-mcp: %v\n", err)
		return rpcerr.ExitInternal
	}
	if verr := config.Validate(cfg); verr != nil {
		fmt.Fprintf(stderr, "engine-rpc-mcp: invalid config %s: %v\n", config.ExampleConfigPath(), verr)
		return rpcerr.ExitUsageErr
	}

	host := cfg.MCP.Host
	if host == "" {
		host = cfg.Host
	}
	if host == "" {
		host = rpcclient.DefaultHost
	}

	var opts commandOptions
	fs := pflag.NewFlagSet("engine-rpc-mcp", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	fs.StringVarP(&opts.host, "ip", "i", host, "engine `HOST`")
	fs.StringVarP(&opts.port, "port", "p", cfg.MCP.Port, "engine gRPC `PORT` (default: config mcp.port)")
	fs.DurationVar(&opts.timeout, "timeout", cfg.CallTimeout(), "deadline of each call, 0 for none")
	fs.StringVar(&opts.proto, "proto", cfg.Proto, "use the service declared in this .proto `FILE`")
	fs.StringVar(&opts.service, "service", cfg.Service, "service to use from --proto")
	fs.StringArrayVar(&opts.importPaths, "import-path", cfg.ImportPaths, "directory searched for .proto imports (repeatable)")
	fs.IntVar(&opts.logLevel, "log-level", 0, "diagnostic log verbosity written to stderr")
	fs.BoolVar(&opts.version, "version", false, "print the version")
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return rpcerr.ExitOK
		}
		return rpcerr.ExitUsageErr
	}
	if opts.version {
		fmt.Fprintf(stderr, "engine-rpc-mcp %s\n", version)
		return rpcerr.ExitOK
	}
	if err := logging.Init(opts.logLevel); err != nil {
		fmt.Fprintf(stderr, "engine-rpc-mcp: %v\n", err)
		return rpcerr.ExitUsageErr
	}

	reg, err := schema.Load(opts.proto, opts.importPaths, opts.service)
	if err != nil {
		fmt.Fprintf(stderr, "engine-rpc-mcp: loading schema: %v\n", err)
		return rpcerr.ExitInternal
	}
	b, err := New(reg, rpcclient.Target{Host: opts.host, Port: opts.port}, WithTimeout(opts.timeout), WithVersion(version))
	if err != nil {
		fmt.Fprintf(stderr, "engine-rpc-mcp: %v\n", err)
		return rpcerr.ExitCode(err)
	}
	if err := serve(b); err != nil {
		fmt.Fprintf(stderr, "engine-rpc-mcp: %v\n", err)
		return rpcerr.ExitInternal
	}
	return rpcerr.ExitOK
}
