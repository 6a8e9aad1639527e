package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Color != ColorAuto {
		t.Fatalf("Color = %q, want %q", cfg.Color, ColorAuto)
	}
	if cfg.Bench.Count != 100 || cfg.Bench.Concurrency != 1 {
		t.Fatalf("Bench = %+v, want count 100 and concurrency 1", cfg.Bench)
	}
}

func TestLoadFromKeepsDefaultsForAbsentKeys(t *testing.T) {
	path := writeConfig(t, `
host = "10.0.0.5"

[bench]
rate = 50.0
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Host != "10.0.0.5" {
		t.Fatalf("Host = %q, want %q", cfg.Host, "10.0.0.5")
	}
	if cfg.Bench.Rate != 50 {
		t.Fatalf("Bench.Rate = %v, want 50", cfg.Bench.Rate)
	}
	if cfg.Bench.Count != 100 {
		t.Fatalf("Bench.Count = %d, want default 100", cfg.Bench.Count)
	}
}

func TestLoadFromExpandsEnvValuesAfterParsing(t *testing.T) {
	t.Setenv("ENGINE_HOST", "poller-1")
	t.Setenv("PROTO_ROOT", "/opt/centreon/proto")

	path := writeConfig(t, `
host = "${ENGINE_HOST}"
import_paths = ["${PROTO_ROOT}/common", "${UNSET_VAR_FOR_TEST}/x"]

[mcp]
host = "${ENGINE_HOST}"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Host != "poller-1" {
		t.Fatalf("Host = %q, want %q", cfg.Host, "poller-1")
	}
	if cfg.MCP.Host != "poller-1" {
		t.Fatalf("MCP.Host = %q, want %q", cfg.MCP.Host, "poller-1")
	}
	if got, want := cfg.ImportPaths[0], "/opt/centreon/proto/common"; got != want {
		t.Fatalf("import_paths[0] = %q, want %q", got, want)
	}
	if got, want := cfg.ImportPaths[1], "${UNSET_VAR_FOR_TEST}/x"; got != want {
		t.Fatalf("import_paths[1] = %q, want %q", got, want)
	}
}

func TestLoadFromRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
host = "127.0.0.1"
port = "50051"
`)

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("LoadFrom() error = nil, want unknown key error")
	}
	if !strings.Contains(err.Error(), `unknown key "port"`) {
		t.Fatalf("LoadFrom() error = %q, want unknown key message", err)
	}
}

func TestLoadFromRejectsInvalidTOML(t *testing.T) {
	path := writeConfig(t, `host = `)

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom() error = nil, want parse error")
	}
}

func TestCallTimeout(t *testing.T) {
	tests := []struct {
		timeout string
		want    time.Duration
	}{
		{timeout: "", want: 0},
		{timeout: "1500ms", want: 1500 * time.Millisecond},
		{timeout: "bogus", want: 0},
	}
	for _, tt := range tests {
		cfg := &Config{Timeout: tt.timeout}
		if got := cfg.CallTimeout(); got != tt.want {
			t.Fatalf("CallTimeout(%q) = %v, want %v", tt.timeout, got, tt.want)
		}
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := Default()
	want.Host = "192.168.1.20"
	want.Timeout = "3s"
	if err := SaveTo(path, want); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config permissions = %o, want 600", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.Host != want.Host || got.Timeout != want.Timeout || got.Bench != want.Bench {
		t.Fatalf("LoadFrom() = %+v, want %+v", got, want)
	}
}

func TestSaveToWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := SaveTo(path, nil); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# engine-rpc configuration.") {
		t.Fatalf("config = %q, want leading header comment", data)
	}
}

func TestSaveToRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Color = "sometimes"

	if err := SaveTo(path, cfg); err == nil {
		t.Fatal("SaveTo() error = nil, want validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("stat after rejected save = %v, want not exist", err)
	}
}
