package login

import (
	"errors"

	"github.com/telekom/ghlogin/pkg/hostaddress"
)

// stage writes the credentials the API client will use for host.
func (m *Manager) stage(username, secret string, host hostaddress.HostAddress) error {
	return m.keychain.Save(username, secret, host)
}

func (m *Manager) unstage(host hostaddress.HostAddress) error {
	return m.keychain.Delete(host)
}

// fail removes the staged credentials for host and returns cause. A cleanup
// failure is joined to cause, which stays matchable with errors.Is/As.
func (m *Manager) fail(host hostaddress.HostAddress, cause error) error {
	if err := m.unstage(host); err != nil {
		m.log.Warnw("Failed to remove staged credentials", "host", host.Title(), "error", err)
		return errors.Join(cause, err)
	}
	return cause
}
