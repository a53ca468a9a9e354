package login

import (
	"errors"
	"time"
)

const (
	DefaultMaxAuthorizationAttempts = 5
	DefaultVerifyAttempts           = 4
	DefaultVerifyDelay              = time.Second
)

// DefaultScopes are requested when Config.Scopes is empty.
var DefaultScopes = []string{"user", "repo", "gist", "write:public_key"}

type Config struct {
	ClientID     string
	ClientSecret string
	// Note is stored with the authorization on the host
	Note string
	// Fingerprint distinguishes authorizations of the same user and application
	Fingerprint string
	Scopes      []string
	// MinimumScopes must be granted to the verified token; empty skips the check
	MinimumScopes []string
	// MaxAuthorizationAttempts bounds create-authorization rounds per Login call
	MaxAuthorizationAttempts int
	// VerifyAttempts and VerifyDelay bound the /user fetch after a token is obtained
	VerifyAttempts int
	VerifyDelay    time.Duration
}

func (c Config) validate() error {
	if c.ClientID == "" {
		return errors.New("client id is required")
	}
	if c.ClientSecret == "" {
		return errors.New("client secret is required")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if len(c.Scopes) == 0 {
		c.Scopes = append([]string(nil), DefaultScopes...)
	}
	if c.MaxAuthorizationAttempts < 1 {
		c.MaxAuthorizationAttempts = DefaultMaxAuthorizationAttempts
	}
	if c.VerifyAttempts < 1 {
		c.VerifyAttempts = DefaultVerifyAttempts
	}
	if c.VerifyDelay <= 0 {
		c.VerifyDelay = DefaultVerifyDelay
	}
	return c
}
