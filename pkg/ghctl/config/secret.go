package config

import (
	"fmt"
	"os"
	"strings"
)

// ResolveClientSecret returns the literal secret, else the named env var,
// else the file contents.
func ResolveClientSecret(secret, secretEnv, secretFile string) (string, error) {
	if secret != "" {
		return secret, nil
	}
	if secretEnv != "" {
		value := strings.TrimSpace(os.Getenv(secretEnv))
		if value == "" && secretFile == "" {
			return "", fmt.Errorf("client secret env var not set: %s", secretEnv)
		}
		if value != "" {
			return value, nil
		}
	}
	if secretFile != "" {
		bytes, err := os.ReadFile(secretFile)
		if err != nil {
			return "", fmt.Errorf("failed to read client secret file: %w", err)
		}
		return strings.TrimSpace(string(bytes)), nil
	}
	return "", nil
}
