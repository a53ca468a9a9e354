package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/telekom/ghlogin/pkg/hostaddress"
)

const (
	VersionV1 = "v1"
)

type Config struct {
	Version     string      `yaml:"version"`
	CurrentHost string      `yaml:"current-host,omitempty"`
	Application Application `yaml:"application,omitempty"`
	Hosts       []Host      `yaml:"hosts,omitempty"`
	Settings    Settings    `yaml:"settings,omitempty"`
}

// Application identifies the OAuth application authorizations are created for.
type Application struct {
	ClientID         string   `yaml:"client-id,omitempty"`
	ClientSecret     string   `yaml:"client-secret,omitempty"`
	ClientSecretEnv  string   `yaml:"client-secret-env,omitempty"`
	ClientSecretFile string   `yaml:"client-secret-file,omitempty"`
	NoteTemplate     string   `yaml:"note-template,omitempty"`
	Scopes           []string `yaml:"scopes,omitempty"`
	MinimumScopes    []string `yaml:"minimum-scopes,omitempty"`
	CallbackAddress  string   `yaml:"callback-address,omitempty"`
}

type Host struct {
	Name                  string `yaml:"name"`
	URL                   string `yaml:"url"`
	CAFile                string `yaml:"ca-file,omitempty"`
	InsecureSkipTLSVerify bool   `yaml:"insecure-skip-tls-verify,omitempty"`
}

type Settings struct {
	OutputFormat             string  `yaml:"output-format,omitempty"`
	TokenStorage             string  `yaml:"token-storage,omitempty"`
	CredentialFile           string  `yaml:"credential-file,omitempty"`
	MaxAuthorizationAttempts int     `yaml:"max-authorization-attempts,omitempty"`
	VerifyAttempts           int     `yaml:"verify-attempts,omitempty"`
	VerifyDelay              string  `yaml:"verify-delay,omitempty"`
	Timeout                  string  `yaml:"timeout,omitempty"`
	RateLimit                float64 `yaml:"rate-limit,omitempty"`
	RateBurst                int     `yaml:"rate-burst,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Version:     VersionV1,
		CurrentHost: "github.com",
		Application: Application{
			ClientSecretEnv: "GHLOGIN_CLIENT_SECRET",
			NoteTemplate:    DefaultNoteTemplate,
		},
		Hosts: []Host{{Name: "github.com", URL: "https://github.com"}},
		Settings: Settings{
			OutputFormat: "table",
			TokenStorage: "keychain",
			Timeout:      "30s",
		},
	}
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = VersionV1
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Version == "" {
		cfg.Version = VersionV1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, content, 0o600)
}

func (c *Config) FindHost(name string) (*Host, error) {
	for i := range c.Hosts {
		if c.Hosts[i].Name == name {
			return &c.Hosts[i], nil
		}
	}
	return nil, fmt.Errorf("host not found: %s", name)
}

func (c *Config) CurrentHostOrDefault() string {
	if c.CurrentHost != "" {
		return c.CurrentHost
	}
	if len(c.Hosts) > 0 {
		return c.Hosts[0].Name
	}
	return "github.com"
}

// ResolveHost accepts a configured host name or a server URL. Unknown names
// are parsed as addresses and get a Host entry without TLS settings.
func (c *Config) ResolveHost(nameOrURL string) (*Host, hostaddress.HostAddress, error) {
	if nameOrURL == "" {
		nameOrURL = c.CurrentHostOrDefault()
	}
	host, err := c.FindHost(nameOrURL)
	if err != nil {
		host = &Host{Name: nameOrURL, URL: nameOrURL}
	}
	addr, err := hostaddress.Create(host.URL)
	if err != nil {
		return nil, hostaddress.HostAddress{}, fmt.Errorf("host %s: %w", host.Name, err)
	}
	return host, addr, nil
}

// AddHost inserts or replaces the host with the same name.
func (c *Config) AddHost(host Host) {
	for i := range c.Hosts {
		if c.Hosts[i].Name == host.Name {
			c.Hosts[i] = host
			return
		}
	}
	c.Hosts = append(c.Hosts, host)
}

func (c *Config) Validate() error {
	if c.Version == "" {
		return errors.New("config version missing")
	}
	for _, host := range c.Hosts {
		if strings.TrimSpace(host.Name) == "" {
			return errors.New("host name cannot be empty")
		}
		if strings.TrimSpace(host.URL) == "" {
			return fmt.Errorf("host %s url is required", host.Name)
		}
		if _, err := hostaddress.Create(host.URL); err != nil {
			return fmt.Errorf("host %s: %w", host.Name, err)
		}
	}
	for name, value := range map[string]string{
		"verify-delay": c.Settings.VerifyDelay,
		"timeout":      c.Settings.Timeout,
	} {
		if _, err := ParseDuration(value); err != nil {
			return fmt.Errorf("settings %s: %w", name, err)
		}
	}
	return nil
}

// ParseDuration treats an empty value as zero.
func ParseDuration(value string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return time.ParseDuration(value)
}
