package ignore

import (
	"os"

	"github.com/BurntSushi/toml"
)

const (
	// IgnoreFileName is the default name of the ignore file
	IgnoreFileName = ".esi2ddlignore"
)

// TomlConfig represents the TOML structure of the .esi2ddlignore file
type TomlConfig struct {
	Operations PatternConfig `toml:"operations,omitempty"`
	Paths      PatternConfig `toml:"paths,omitempty"`
}

// PatternConfig holds the glob patterns of one section
type PatternConfig struct {
	Patterns []string `toml:"patterns,omitempty"`
}

// LoadIgnoreFileFromPath loads an ignore file from the specified path.
// Returns nil if the file doesn't exist.
func LoadIgnoreFileFromPath(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		// File doesn't exist, return nil config (no filtering)
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var tomlConfig TomlConfig
	if _, err := toml.DecodeFile(filePath, &tomlConfig); err != nil {
		return nil, err
	}

	return &Config{
		Operations: tomlConfig.Operations.Patterns,
		Paths:      tomlConfig.Paths.Patterns,
	}, nil
}
