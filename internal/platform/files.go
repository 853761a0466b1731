package platform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tailscale/hujson"
)

// writeJSONConfig marshals v with two-space indentation and writes it
// with a trailing newline
func writeJSONConfig(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return writeConfigFile(path, append(data, '\n'))
}

// writeConfigFile writes a generated config file
func writeConfigFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Info().Str("file", filepath.Base(path)).Msg("Wrote platform config")
	return nil
}

// readJSONC parses a JSON config that may carry comments and trailing
// commas, the dialect the vendor CLIs accept in their own config files
func readJSONC(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := json.Unmarshal(std, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}
