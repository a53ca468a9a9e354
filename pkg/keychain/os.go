package keychain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/telekom/ghlogin/pkg/hostaddress"
)

const defaultService = "ghlogin"

// OSKeychain keeps credentials in the platform keychain (macOS Keychain,
// Windows Credential Manager, Secret Service on Linux).
type OSKeychain struct {
	Service string
}

func NewOSKeychain(service string) *OSKeychain {
	if service == "" {
		service = defaultService
	}
	return &OSKeychain{Service: service}
}

func (k *OSKeychain) Load(host hostaddress.HostAddress) (Credentials, bool, error) {
	raw, err := keyring.Get(k.Service, host.CredentialKey())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Credentials{}, false, nil
		}
		return Credentials{}, false, err
	}
	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return Credentials{}, false, fmt.Errorf("failed to parse keychain entry: %w", err)
	}
	return creds, true, nil
}

func (k *OSKeychain) Save(username, secret string, host hostaddress.HostAddress) error {
	if err := validate(username, secret, host); err != nil {
		return err
	}
	payload, err := json.Marshal(Credentials{Username: username, Secret: secret})
	if err != nil {
		return err
	}
	return keyring.Set(k.Service, host.CredentialKey(), string(payload))
}

func (k *OSKeychain) Delete(host hostaddress.HostAddress) error {
	err := keyring.Delete(k.Service, host.CredentialKey())
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
