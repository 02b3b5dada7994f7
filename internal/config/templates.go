package config

import (
	"fmt"
	"os"

	gotoml "github.com/pelletier/go-toml/v2"
)

// WriteDefault writes the default configuration as a TOML template.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	data, err := gotoml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("config template marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
