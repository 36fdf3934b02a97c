package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults holds the default locations of the config file and data.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - SHELF_CONFIG_PATH: config file location (default: ~/.config/shelf.toml)
//   - SHELF_HOME: base directory for the library data (default: ~/.local/share/shelf)
func GetDefaults() (Defaults, error) {
	configPath, err := fromEnvOrHome("SHELF_CONFIG_PATH", ".config", "shelf.toml")
	if err != nil {
		return Defaults{}, err
	}

	baseDir, err := fromEnvOrHome("SHELF_HOME", ".local", "share", "shelf")
	if err != nil {
		return Defaults{}, err
	}

	return Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}

// fromEnvOrHome returns the value of env when set, otherwise the path made of
// elems under the user's home directory.
func fromEnvOrHome(env string, elems ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elems...)...), nil
}
