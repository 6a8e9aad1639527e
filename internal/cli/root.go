package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/centreon/engine-rpc/internal/config"
	"github.com/centreon/engine-rpc/internal/describe"
	"github.com/centreon/engine-rpc/internal/inputschema"
	"github.com/centreon/engine-rpc/internal/logging"
	"github.com/centreon/engine-rpc/internal/rpcerr"
	"github.com/centreon/engine-rpc/internal/schema"
	"github.com/centreon/engine-rpc/internal/term"
)

// Run is the main CLI entry point. Returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logging.Flush()

	if handled, code := maybeHandleSubcommand(args, rootStdout, rootStderr); handled {
		return code
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(rootStderr, "engine-rpc: %v\n", err)
		return rpcerr.ExitInternal
	}
	if verr := config.Validate(cfg); verr != nil {
		fmt.Fprintf(rootStderr, "engine-rpc: invalid config %s: %v\n", config.ExampleConfigPath(), verr)
		return rpcerr.ExitUsageErr
	}

	cmd, err := parseArgs(args, cfg)
	if err != nil {
		return reportError(err)
	}
	if err := logging.Init(cmd.logLevel); err != nil {
		return reportError(err)
	}

	switch cmd.kind {
	case cmdNone:
		printUsage(rootStderr)
		return rpcerr.ExitUsageErr
	case cmdHelp:
		printUsage(rootStdout)
		return rpcerr.ExitOK
	case cmdVersion:
		fmt.Fprintf(rootStdout, "engine-rpc %s\n", buildVersion)
		return rpcerr.ExitOK
	}

	reg, err := loadRegistry(cmd.proto, cmd.importPaths, cmd.service)
	if err != nil {
		fmt.Fprintf(rootStderr, "engine-rpc: %v\n", err)
		return rpcerr.ExitInternal
	}

	switch cmd.kind {
	case cmdList:
		err = listMethods(rootStdout, reg, cmd.output)
	case cmdDescribe:
		err = describeMethod(rootStdout, reg, cmd)
	case cmdExecute:
		err = execute(ctx, rootStdout, reg, cmd)
	}
	if err != nil {
		return reportError(err)
	}
	return rpcerr.ExitOK
}

func maybeHandleSubcommand(args []string, stdout, stderr io.Writer) (bool, int) {
	if len(args) == 0 {
		return false, 0
	}

	switch args[0] {
	case "completion":
		return true, runCompletionCommand(args[1:], stdout, stderr)
	case "__complete":
		return true, runInternalCompletion(args[1:], stdout, stderr)
	case "config":
		return true, runConfigCommand(args[1:], stdout, stderr)
	default:
		return false, 0
	}
}

func loadRegistry(proto string, importPaths []string, service string) (*schema.Registry, error) {
	reg, err := schema.Load(proto, importPaths, service)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return reg, nil
}

func reportError(err error) int {
	fmt.Fprintf(rootStderr, "engine-rpc: %v\n", err)
	code := rpcerr.ExitCode(err)
	if errors.Is(err, rpcerr.ErrInvalidArgs) {
		fmt.Fprintln(rootStderr, "Run 'engine-rpc --help' for usage.")
	}
	return code
}

func listMethods(w io.Writer, reg *schema.Registry, mode outputMode) error {
	if mode.isJSON() {
		names := make([]string, 0, reg.Len())
		for name := range reg.Names() {
			names = append(names, name)
		}
		return writeJSON(w, names)
	}
	for name := range reg.Names() {
		fmt.Fprintln(w, name)
	}
	return nil
}

func describeMethod(w io.Writer, reg *schema.Registry, cmd command) error {
	m, err := reg.Lookup(cmd.method)
	if err != nil {
		return err
	}
	if cmd.output.isJSON() {
		raw, err := inputschema.JSON(inputschema.ForMethod(m))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	_, err = io.WriteString(w, describe.Render(m, describe.Options{Color: term.UseColor(cmd.color, w)}))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
