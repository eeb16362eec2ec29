package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFileName is the name of the YAML config file, without extension.
const ConfigFileName = ".seiton"

// GetGlobalConfigDir returns the path to the global directory (~/.seiton).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".seiton"), nil
}

// GetMemoryBasePath returns the directory holding seiton.db.
// Resolution order (first match wins):
// 1. Explicit config via "memory.path" (Viper/env/flag)
// 2. XDG_DATA_HOME/seiton/memory (if XDG_DATA_HOME is set)
// 3. Global fallback: ~/.seiton/memory
func GetMemoryBasePath() string {
	if path := viper.GetString("memory.path"); path != "" {
		return path
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "seiton", "memory")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "./memory"
	}
	return filepath.Join(dir, "memory")
}

// GetPoliciesPath returns the directory scanned for extra .rego files.
func GetPoliciesPath() string {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(".seiton", "policies")
	}
	return filepath.Join(dir, "policies")
}

// GetLogPath returns the file the slog handler writes to.
func GetLogPath() string {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(".seiton", "logs", "seiton.log")
	}
	return filepath.Join(dir, "logs", "seiton.log")
}

// GetGlobalConfigFile returns the path `seiton config set` writes to.
func GetGlobalConfigFile() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+".yaml"), nil
}
