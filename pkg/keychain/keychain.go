package keychain

import (
	"fmt"
	"strings"

	"github.com/telekom/ghlogin/pkg/hostaddress"
)

const (
	StorageKeychain = "keychain"
	StorageFile     = "file"
	StorageMemory   = "memory"
)

// Credentials is a username and a password or token.
type Credentials struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

// String never includes the secret.
func (c Credentials) String() string {
	return fmt.Sprintf("%s:<redacted>", c.Username)
}

// Store is the credential store contract. Delete of a missing entry is not an error.
type Store interface {
	Load(host hostaddress.HostAddress) (Credentials, bool, error)
	Save(username, secret string, host hostaddress.HostAddress) error
	Delete(host hostaddress.HostAddress) error
}

// New returns the backend for mode. An empty mode selects the OS keychain.
func New(mode, filePath string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", StorageKeychain:
		return NewOSKeychain(""), nil
	case StorageFile:
		if filePath == "" {
			return nil, fmt.Errorf("file token storage requires a path")
		}
		return &FileStore{Path: filePath}, nil
	case StorageMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported token storage: %s", mode)
	}
}

func validate(username, secret string, host hostaddress.HostAddress) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if secret == "" {
		return fmt.Errorf("secret is required")
	}
	if host.IsZero() {
		return fmt.Errorf("host is required")
	}
	return nil
}
