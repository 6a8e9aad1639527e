package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/centreon/engine-rpc/internal/config"
	"github.com/centreon/engine-rpc/internal/logging"
	"github.com/centreon/engine-rpc/internal/paths"
	"github.com/centreon/engine-rpc/internal/rpcclient"
	"github.com/centreon/engine-rpc/internal/rpcerr"
	"github.com/centreon/engine-rpc/internal/schema"
	"github.com/centreon/engine-rpc/internal/translate"
)

type commandOptions struct {
	host        string
	port        string
	method      string
	args        string
	file        string
	count       int
	concurrency int
	rate        float64
	timeout     time.Duration
	json        bool
	noHistory   bool
	proto       string
	service     string
	importPaths []string
	logLevel    int
}

func newFlagSet(opts *commandOptions, cfg *config.Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("engine-rpc-bench", pflag.ContinueOnError)
	fs.SortFlags = false

	host := cfg.Host
	if host == "" {
		host = rpcclient.DefaultHost
	}
	fs.StringVarP(&opts.host, "ip", "i", host, "engine `HOST`")
	fs.StringVarP(&opts.port, "port", "p", "", "engine gRPC `PORT` (required)")
	fs.StringVarP(&opts.method, "exe", "e", "", "method `NAME` to call (required)")
	fs.StringVarP(&opts.args, "args", "a", "", "inline `JSON` payload")
	fs.StringVarP(&opts.file, "file", "f", "", "read the JSON payload from `PATH`")
	fs.IntVarP(&opts.count, "count", "n", cfg.Bench.Count, "number of calls")
	fs.IntVarP(&opts.concurrency, "concurrency", "c", cfg.Bench.Concurrency, "calls in flight")
	fs.Float64VarP(&opts.rate, "rate", "r", cfg.Bench.Rate, "calls per second, 0 for unpaced")
	fs.DurationVar(&opts.timeout, "timeout", 0, "deadline for the whole run, 0 for none")
	fs.BoolVar(&opts.json, "json", false, "print the report as JSON")
	fs.BoolVar(&opts.noHistory, "no-history", false, "do not append the report to the history file")
	fs.StringVar(&opts.proto, "proto", cfg.Proto, "use the service declared in this .proto `FILE`")
	fs.StringVar(&opts.service, "service", cfg.Service, "service to use from --proto")
	fs.StringArrayVar(&opts.importPaths, "import-path", cfg.ImportPaths, "directory searched for .proto imports (repeatable)")
	fs.IntVar(&opts.logLevel, "log-level", 0, "diagnostic log verbosity written to stderr")
	return fs
}

// Main runs the engine-rpc-bench command line and returns the exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	defer logging.Flush()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "engine-rpc-bench: %v\n", err)
		return rpcerr.ExitInternal
	}
	if verr := config.Validate(cfg); verr != nil {
		fmt.Fprintf(stderr, "engine-rpc-bench: invalid config %s: %v\n", config.ExampleConfigPath(), verr)
		return rpcerr.ExitUsageErr
	}

	var opts commandOptions
	fs := newFlagSet(&opts, cfg)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return rpcerr.ExitOK
		}
		return rpcerr.ExitUsageErr
	}
	if err := logging.Init(opts.logLevel); err != nil {
		fmt.Fprintf(stderr, "engine-rpc-bench: %v\n", err)
		return rpcerr.ExitUsageErr
	}

	report, err := run(ctx, opts)
	if err != nil {
		fmt.Fprintf(stderr, "engine-rpc-bench: %v\n", err)
		return rpcerr.ExitCode(err)
	}

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	} else {
		err = Print(stdout, report)
	}
	if err != nil {
		fmt.Fprintf(stderr, "engine-rpc-bench: %v\n", err)
		return rpcerr.ExitInternal
	}

	if !opts.noHistory {
		entry := Entry{Time: time.Now().UTC(), Target: rpcclient.Target{Host: opts.host, Port: opts.port}.Addr(), Report: report}
		if err := AppendHistory(paths.BenchHistoryFile(), entry); err != nil {
			klog.Warningf("bench history not saved: %v", err)
		}
	}
	if report.Errors > 0 {
		return rpcerr.ExitRPCErr
	}
	return rpcerr.ExitOK
}

func run(ctx context.Context, opts commandOptions) (Report, error) {
	target := rpcclient.Target{Host: opts.host, Port: opts.port}
	if err := target.Validate(); err != nil {
		return Report{}, err
	}
	if opts.method == "" {
		return Report{}, fmt.Errorf("%w: -e NAME is required", rpcerr.ErrInvalidArgs)
	}

	reg, err := schema.Load(opts.proto, opts.importPaths, opts.service)
	if err != nil {
		return Report{}, fmt.Errorf("loading schema: %w", err)
	}
	m, err := reg.Lookup(opts.method)
	if err != nil {
		return Report{}, err
	}

	payload := []byte(opts.args)
	if opts.args == "" && opts.file != "" {
		payload, err = os.ReadFile(opts.file)
		if err != nil {
			return Report{}, fmt.Errorf("%w: %v", rpcerr.ErrUnreadableInput, err)
		}
	}
	if len(payload) == 0 && !m.HasEmptyInput() {
		return Report{}, fmt.Errorf("%w: %s takes %s", rpcerr.ErrMissingPayload, m.Name, m.Input.FullName())
	}
	req, err := translate.ToMessage(m, payload)
	if err != nil {
		return Report{}, err
	}

	conn, err := rpcclient.Dial(target)
	if err != nil {
		return Report{}, err
	}
	defer conn.Close()

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	return Run(ctx, conn, m, req, Options{Count: opts.count, Concurrency: opts.concurrency, Rate: opts.rate})
}
