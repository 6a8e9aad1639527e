package cli

import (
	"fmt"
	"io"

	"github.com/centreon/engine-rpc/internal/config"
)

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  engine-rpc -l|--list")
	fmt.Fprintln(w, "  engine-rpc -d|--description <Method>")
	fmt.Fprintln(w, "  engine-rpc -e|--exe <Method> -p <port> [-i <ip>] [-a '<json>' | -f <file.json>] [-v]")
	fmt.Fprintln(w, "  engine-rpc -h|--help")
	fmt.Fprintln(w, "  engine-rpc completion <bash|zsh|fish>")
	fmt.Fprintln(w, "  engine-rpc config <path|init|show>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands (use exactly one):")
	fmt.Fprintln(w, "  -l, --list                 Print all method names, one per line")
	fmt.Fprintln(w, "  -h, --help                 Print this help")
	fmt.Fprintln(w, "  -d, --description NAME     Print the input fields of NAME and an example JSON payload")
	fmt.Fprintln(w, "  -e, --exe NAME             Invoke NAME on the engine")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Invocation flags:")
	fmt.Fprintln(w, "  -p, --port PORT            Engine gRPC port (required with -e)")
	fmt.Fprintln(w, "  -i, --ip HOST              Engine host (default 127.0.0.1 or config host)")
	fmt.Fprintln(w, "  -a, --args JSON            Inline JSON payload")
	fmt.Fprintln(w, "  -f, --file PATH            JSON payload file, - for stdin (ignored when -a is set)")
	fmt.Fprintln(w, "  -v, --verbose              Print \"Success\" when the response is empty")
	fmt.Fprintln(w, "      --timeout DURATION     Call deadline, for example 5s (default none)")
	fmt.Fprintln(w, "      --json                 Print responses, listings and layouts as JSON")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Schema flags:")
	fmt.Fprintln(w, "      --proto FILE           Use the service declared in FILE instead of the built-in engine schema")
	fmt.Fprintln(w, "      --service NAME         Service to use from --proto (default the first one)")
	fmt.Fprintln(w, "      --import-path DIR      Directory searched for .proto imports (repeatable)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Global flags:")
	fmt.Fprintln(w, "      --color MODE           auto, always or never")
	fmt.Fprintln(w, "      --log-level N          Diagnostic log verbosity on stderr")
	fmt.Fprintln(w, "      --version              Print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 RPC failure, 2 usage or input error, 3 internal error")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Config file: %s\n", config.ExampleConfigPath())
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  engine-rpc -e GetVersion -p 50001")
	fmt.Fprintln(w, "  engine-rpc -d GetHost")
	fmt.Fprintln(w, `  engine-rpc -e GetHost -p 50001 -a '{"name": "central"}'`)
}
