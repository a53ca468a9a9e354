package hostaddress

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	dotComHost    = "github.com"
	dotComWebURL  = "https://github.com/"
	dotComAPIURL  = "https://api.github.com/"
	enterpriseAPI = "api/v3/"
)

// HostAddress is an immutable, comparable address of a GitHub host.
type HostAddress struct {
	webURL string
	apiURL string
}

// GitHubDotCom is the address of the public github.com service.
var GitHubDotCom = HostAddress{webURL: dotComWebURL, apiURL: dotComAPIURL}

// Create parses a user supplied server address. A missing scheme defaults to https.
func Create(raw string) (HostAddress, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return HostAddress{}, errors.New("host address is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return HostAddress{}, fmt.Errorf("invalid host address: %w", err)
	}
	if parsed.Host == "" {
		return HostAddress{}, fmt.Errorf("invalid host address: %q has no host", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return HostAddress{}, fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if isDotComHost(parsed.Hostname()) {
		return GitHubDotCom, nil
	}
	web := parsed.Scheme + "://" + strings.ToLower(parsed.Host) + "/"
	return HostAddress{webURL: web, apiURL: web + enterpriseAPI}, nil
}

// MustCreate is Create for constant inputs; it panics on error.
func MustCreate(raw string) HostAddress {
	h, err := Create(raw)
	if err != nil {
		panic(err)
	}
	return h
}

func isDotComHost(host string) bool {
	switch strings.ToLower(host) {
	case dotComHost, "www." + dotComHost, "api." + dotComHost, "gist." + dotComHost:
		return true
	}
	return false
}

// IsGitHubDotCom reports whether the address is the public github.com host.
func (h HostAddress) IsGitHubDotCom() bool {
	return h == GitHubDotCom
}

// IsZero reports whether the address was never initialised.
func (h HostAddress) IsZero() bool {
	return h.webURL == ""
}

// WebURL is the browser-facing root, always ending in a slash.
func (h HostAddress) WebURL() string {
	return h.webURL
}

// APIBaseURL is the REST API root, always ending in a slash.
func (h HostAddress) APIBaseURL() string {
	return h.apiURL
}

// CredentialKey is the key credentials for this host are stored under.
func (h HostAddress) CredentialKey() string {
	return h.webURL
}

// Title is a short human readable name, e.g. "github.com" or "ghe.example.com".
func (h HostAddress) Title() string {
	u, err := url.Parse(h.webURL)
	if err != nil || u.Host == "" {
		return h.webURL
	}
	return u.Host
}

func (h HostAddress) String() string {
	return h.Title()
}
