package config

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigDirName  = "ghlogin"
	defaultConfigFile     = "config.yaml"
	defaultCredentialFile = "credentials.json"
)

func DefaultConfigPath() string {
	if env := os.Getenv("GHLOGIN_CONFIG"); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, defaultConfigDirName, defaultConfigFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ghlogin", defaultConfigFile)
}

// DefaultCredentialPath is used by the file token storage.
func DefaultCredentialPath() string {
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, defaultConfigDirName, defaultCredentialFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ghlogin", defaultCredentialFile)
}
