package config

import "time"

// Config is the top-level engine-rpc configuration.
type Config struct {
	// Host is the engine address used when -i is not given.
	Host string `toml:"host"`
	// Timeout bounds one call, as a Go duration. Empty means no deadline.
	Timeout string `toml:"timeout"`
	// Color is one of auto, always, never.
	Color string `toml:"color"`

	// Proto replaces the embedded engine schema with a .proto file.
	Proto       string   `toml:"proto"`
	Service     string   `toml:"service"`
	ImportPaths []string `toml:"import_paths"`

	Bench BenchConfig `toml:"bench"`
	MCP   MCPConfig   `toml:"mcp"`
}

// BenchConfig holds engine-rpc-bench defaults.
type BenchConfig struct {
	Count       int     `toml:"count"`
	Concurrency int     `toml:"concurrency"`
	Rate        float64 `toml:"rate"`
}

// MCPConfig holds engine-rpc-mcp defaults. Unlike engine-rpc, the bridge
// may read its port from here.
type MCPConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Color: ColorAuto,
		Bench: BenchConfig{
			Count:       100,
			Concurrency: 1,
		},
	}
}

// CallTimeout returns the parsed timeout, or zero when unset or invalid.
// Validate reports invalid values.
func (c *Config) CallTimeout() time.Duration {
	if c == nil || c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
