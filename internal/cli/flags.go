package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/centreon/engine-rpc/internal/config"
	"github.com/centreon/engine-rpc/internal/rpcclient"
	"github.com/centreon/engine-rpc/internal/rpcerr"
)

type commandKind int

const (
	cmdNone commandKind = iota
	cmdList
	cmdHelp
	cmdDescribe
	cmdExecute
	cmdVersion
)

// outputMode selects how results are printed.
type outputMode bool

const (
	outputText outputMode = false
	outputJSON outputMode = true
)

func (m outputMode) isJSON() bool {
	return m == outputJSON
}

type options struct {
	list     bool
	help     bool
	describe string
	exe      string

	host    string
	port    string
	args    string
	file    string
	verbose bool
	json    bool
	timeout time.Duration

	proto       string
	service     string
	importPaths []string
	logLevel    int
	color       string
	version     bool
}

// command is the outcome of argument parsing: what to do and with which
// inputs. Nothing has touched the network yet.
type command struct {
	kind    commandKind
	method  string
	target  rpcclient.Target
	payload payloadSource
	verbose bool
	output  outputMode
	timeout time.Duration
	color   string

	proto       string
	service     string
	importPaths []string
	logLevel    int
}

// payloadSource is where the JSON request comes from. Both empty means no
// payload was given.
type payloadSource struct {
	inline string
	file   string
}

func newFlagSet(opts *options, cfg *config.Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("engine-rpc", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	defaultHost := cfg.Host
	if defaultHost == "" {
		defaultHost = rpcclient.DefaultHost
	}
	color := cfg.Color
	if color == "" {
		color = config.ColorAuto
	}

	fs.BoolVarP(&opts.list, "list", "l", false, "print all method names, one per line")
	fs.BoolVarP(&opts.help, "help", "h", false, "print this help")
	fs.StringVarP(&opts.describe, "description", "d", "", "print the input layout of method `NAME`")
	fs.StringVarP(&opts.exe, "exe", "e", "", "invoke method `NAME`")
	fs.StringVarP(&opts.port, "port", "p", "", "engine gRPC `PORT`")
	fs.StringVarP(&opts.host, "ip", "i", defaultHost, "engine `HOST`")
	fs.StringVarP(&opts.args, "args", "a", "", "inline `JSON` payload")
	fs.StringVarP(&opts.file, "file", "f", "", "read the JSON payload from `PATH` (- for stdin)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "print "+`"Success"`+" when the response is empty")
	fs.BoolVar(&opts.json, "json", false, "print responses and listings as JSON")
	fs.DurationVar(&opts.timeout, "timeout", cfg.CallTimeout(), "call deadline, 0 for none")
	fs.StringVar(&opts.proto, "proto", cfg.Proto, "use the service declared in this .proto `FILE`")
	fs.StringVar(&opts.service, "service", cfg.Service, "service to use from --proto")
	fs.StringArrayVar(&opts.importPaths, "import-path", cfg.ImportPaths, "directory searched for .proto imports (repeatable)")
	fs.IntVar(&opts.logLevel, "log-level", 0, "diagnostic log verbosity written to stderr")
	fs.StringVar(&opts.color, "color", color, "colorize descriptions: auto, always or never")
	fs.BoolVar(&opts.version, "version", false, "print the version")
	return fs
}

// parseArgs turns the command line into a command. Usage errors are
// reported here, before any channel is created.
func parseArgs(args []string, cfg *config.Config) (command, error) {
	var opts options
	fs := newFlagSet(&opts, cfg)
	if err := fs.Parse(args); err != nil {
		return command{}, fmt.Errorf("%w: %v", rpcerr.ErrInvalidArgs, err)
	}
	if rest := fs.Args(); len(rest) > 0 {
		return command{}, fmt.Errorf("%w: unexpected argument %q", rpcerr.ErrInvalidArgs, rest[0])
	}

	switch opts.color {
	case config.ColorAuto, config.ColorAlways, config.ColorNever:
	default:
		return command{}, fmt.Errorf("%w: --color must be auto, always or never, got %q", rpcerr.ErrInvalidArgs, opts.color)
	}
	if opts.logLevel < 0 {
		return command{}, fmt.Errorf("%w: --log-level must be >= 0", rpcerr.ErrInvalidArgs)
	}

	cmd := command{
		target:      rpcclient.Target{Host: opts.host, Port: strings.TrimSpace(opts.port)},
		verbose:     opts.verbose,
		timeout:     opts.timeout,
		color:       opts.color,
		proto:       opts.proto,
		service:     opts.service,
		importPaths: opts.importPaths,
		logLevel:    opts.logLevel,
	}
	if opts.json {
		cmd.output = outputJSON
	}

	if opts.version {
		cmd.kind = cmdVersion
		return cmd, nil
	}

	selected := 0
	if opts.list {
		selected++
		cmd.kind = cmdList
	}
	if opts.help {
		selected++
		cmd.kind = cmdHelp
	}
	if fs.Changed("description") {
		selected++
		cmd.kind = cmdDescribe
		cmd.method = opts.describe
	}
	if fs.Changed("exe") {
		selected++
		cmd.kind = cmdExecute
		cmd.method = opts.exe
	}
	if selected > 1 {
		return command{}, rpcerr.ErrAmbiguousCommand
	}

	if cmd.kind == cmdExecute {
		if err := cmd.target.Validate(); err != nil {
			return command{}, err
		}
		cmd.payload = payloadSource{inline: opts.args, file: opts.file}
		if opts.args != "" && opts.file != "" {
			klog.Warningf("both -a and -f given, ignoring file %s", opts.file)
			cmd.payload.file = ""
		}
	}
	return cmd, nil
}
