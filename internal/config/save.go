package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/centreon/engine-rpc/internal/paths"
)

const fileHeader = `# engine-rpc configuration.
# Flags given on the command line override these values.
# ${VAR} references are expanded from the environment when loading.

`

// SaveTo validates cfg and writes it to path as TOML, readable only by
// the owner. A nil cfg writes Default().
func SaveTo(path string, cfg *Config) error {
	if cfg == nil {
		cfg = Default()
	}
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return paths.WriteFile(path, buf.Bytes(), 0o600)
}
