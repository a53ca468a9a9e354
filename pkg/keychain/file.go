package keychain

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/telekom/ghlogin/pkg/hostaddress"
)

type credentialFile struct {
	Hosts map[string]Credentials `json:"hosts"`
}

// FileStore keeps credentials for all hosts in a single 0600 JSON file.
type FileStore struct {
	Path string

	mu sync.Mutex
}

func (f *FileStore) Load(host hostaddress.HostAddress) (Credentials, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, err := f.read()
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, false, nil
		}
		return Credentials{}, false, err
	}
	creds, ok := file.Hosts[host.CredentialKey()]
	return creds, ok, nil
}

func (f *FileStore) Save(username, secret string, host hostaddress.HostAddress) error {
	if err := validate(username, secret, host); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	file, err := f.read()
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		file = &credentialFile{Hosts: map[string]Credentials{}}
	}
	file.Hosts[host.CredentialKey()] = Credentials{Username: username, Secret: secret}
	return f.write(file)
}

func (f *FileStore) Delete(host hostaddress.HostAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, err := f.read()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if _, ok := file.Hosts[host.CredentialKey()]; !ok {
		return nil
	}
	delete(file.Hosts, host.CredentialKey())
	return f.write(file)
}

func (f *FileStore) read() (*credentialFile, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var file credentialFile
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	if file.Hosts == nil {
		file.Hosts = map[string]Credentials{}
	}
	return &file, nil
}

func (f *FileStore) write(file *credentialFile) error {
	if file == nil {
		return errors.New("credential file is nil")
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create credential dir: %w", err)
	}
	content, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential file: %w", err)
	}
	return os.WriteFile(f.Path, content, 0o600)
}
