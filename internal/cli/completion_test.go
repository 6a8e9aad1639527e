package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/centreon/engine-rpc/internal/rpcerr"
)

func TestRunCompletionCommandScripts(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{shell: "bash", want: []string{"engine-rpc __complete methods", "complete -F _engine_rpc_completion engine-rpc", "auto always never"}},
		{shell: "zsh", want: []string{"#compdef engine-rpc", "engine-rpc __complete methods", "_files -/"}},
		{shell: "FISH", want: []string{"complete -c engine-rpc -s e -l exe", "engine-rpc __complete methods"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			var out, errOut bytes.Buffer
			if code := runCompletionCommand([]string{tt.shell}, &out, &errOut); code != rpcerr.ExitOK {
				t.Fatalf("runCompletionCommand() code = %d, want %d", code, rpcerr.ExitOK)
			}
			if errOut.Len() != 0 {
				t.Fatalf("stderr = %q, want empty", errOut.String())
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Fatalf("%s completion missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestRunCompletionCommandUnknownShell(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := runCompletionCommand([]string{"powershell"}, &out, &errOut); code != rpcerr.ExitUsageErr {
		t.Fatalf("code = %d, want %d", code, rpcerr.ExitUsageErr)
	}
	if !strings.Contains(errOut.String(), "unknown shell") {
		t.Fatalf("stderr = %q, want unknown shell", errOut.String())
	}
	if code := runCompletionCommand(nil, &out, &errOut); code != rpcerr.ExitUsageErr {
		t.Fatalf("code without shell = %d, want %d", code, rpcerr.ExitUsageErr)
	}
}

func TestInternalCompletionMethods(t *testing.T) {
	t.Setenv("ENGINE_RPC_CONFIG", filepath.Join(t.TempDir(), "config.toml"))

	var out, errOut bytes.Buffer
	if code := runInternalCompletion([]string{"methods"}, &out, &errOut); code != rpcerr.ExitOK {
		t.Fatalf("code = %d, want 0 (stderr %q)", code, errOut.String())
	}
	names := strings.Split(strings.TrimSpace(out.String()), "\n")
	if names[0] != "GetVersion" {
		t.Fatalf("first method = %q, want GetVersion", names[0])
	}
}

func TestInternalCompletionFlags(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := runInternalCompletion([]string{"flags"}, &out, &errOut); code != rpcerr.ExitOK {
		t.Fatalf("code = %d, want 0", code)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	for _, want := range []string{"-e", "--exe", "--proto", "--import-path", "--json"} {
		found := false
		for _, line := range lines {
			if line == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("flags missing %q: %v", want, lines)
		}
	}
}

func TestInternalCompletionUnknownQuery(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := runInternalCompletion([]string{"servers"}, &out, &errOut); code != rpcerr.ExitUsageErr {
		t.Fatalf("code = %d, want %d", code, rpcerr.ExitUsageErr)
	}
}

func TestRunDispatchesCompletion(t *testing.T) {
	res := runCLI(t, "", "completion", "bash")
	if res.code != rpcerr.ExitOK {
		t.Fatalf("code = %d, want 0", res.code)
	}
	if !strings.Contains(res.stdout, "_engine_rpc_completion") {
		t.Fatalf("stdout = %q, want bash script", res.stdout)
	}
}

func TestInternalCompletionMethodsCachesProtoListing(t *testing.T) {
	t.Setenv("ENGINE_RPC_CONFIG", filepath.Join(t.TempDir(), "config.toml"))
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	protoFile := filepath.Join(t.TempDir(), "greeter.proto")
	raw := "syntax = \"proto3\";\npackage demo;\nmessage Req {}\nservice Greeter {\n  rpc Hello(Req) returns (Req) {}\n}\n"
	if err := os.WriteFile(protoFile, []byte(raw), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		var out, errOut bytes.Buffer
		if code := runInternalCompletion([]string{"methods", "--proto", protoFile}, &out, &errOut); code != rpcerr.ExitOK {
			t.Fatalf("run %d: code = %d, want 0 (stderr %q)", i, code, errOut.String())
		}
		if out.String() != "Hello\n" {
			t.Fatalf("run %d: stdout = %q, want %q", i, out.String(), "Hello\n")
		}
	}

	entries, err := os.ReadDir(filepath.Join(cacheHome, "engine-rpc", "methods"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("cache entries = %d, want 1", len(entries))
	}
}
