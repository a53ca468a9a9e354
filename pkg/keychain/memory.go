package keychain

import (
	"sync"

	"github.com/telekom/ghlogin/pkg/hostaddress"
)

// MemoryStore is a process-local Store, used for --token-storage=memory and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[hostaddress.HostAddress]Credentials
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[hostaddress.HostAddress]Credentials{}}
}

func (m *MemoryStore) Load(host hostaddress.HostAddress) (Credentials, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	creds, ok := m.entries[host]
	return creds, ok, nil
}

func (m *MemoryStore) Save(username, secret string, host hostaddress.HostAddress) error {
	if err := validate(username, secret, host); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[host] = Credentials{Username: username, Secret: secret}
	return nil
}

func (m *MemoryStore) Delete(host hostaddress.HostAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, host)
	return nil
}
