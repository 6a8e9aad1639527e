package paths

import (
	"os"
	"path/filepath"
)

const appDir = "engine-rpc"

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

func xdgDir(envVar string, fallbackParts ...string) string {
	if v := os.Getenv(envVar); v != "" {
		return filepath.Join(v, appDir)
	}
	parts := append([]string{homeDir()}, fallbackParts...)
	return filepath.Join(append(parts, appDir)...)
}

// ConfigDir returns the config directory ($XDG_CONFIG_HOME/engine-rpc).
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// CacheDir returns the cache directory ($XDG_CACHE_HOME/engine-rpc).
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// StateDir returns the state directory ($XDG_STATE_HOME/engine-rpc).
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

// ConfigFile returns the path to config.toml. ENGINE_RPC_CONFIG overrides
// it.
func ConfigFile() string {
	if v := os.Getenv("ENGINE_RPC_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// BenchHistoryFile returns the file engine-rpc-bench appends reports to.
func BenchHistoryFile() string {
	return filepath.Join(StateDir(), "bench.jsonl")
}

// EnsureDir creates a directory and parents if needed.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o700)
}
