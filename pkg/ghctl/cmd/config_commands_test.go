package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/ghlogin/pkg/ghctl/config"
)

func TestConfigCommands(t *testing.T) {
	clearEnv(t)
	h := &harness{t: t, configPath: filepath.Join(t.TempDir(), "nested", "config.yaml")}

	require.NoError(t, h.run("", "config", "init", "--client-id", "Iv1.abc", "--storage", "file"))
	assert.Contains(t, h.out.String(), "Initialized config at")

	err := h.run("", "config", "init", "--client-id", "Iv1.abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config already exists")

	require.NoError(t, h.run("", "config", "add-host", "ghe", "https://ghe.example.com", "--ca-file", "/etc/ssl/ghe.pem"))
	require.NoError(t, h.run("", "config", "use-host", "ghe"))

	cfg, err := config.Load(h.configPath)
	require.NoError(t, err)
	assert.Equal(t, "Iv1.abc", cfg.Application.ClientID)
	assert.Equal(t, "file", cfg.Settings.TokenStorage)
	assert.Equal(t, "ghe", cfg.CurrentHost)
	host, err := cfg.FindHost("ghe")
	require.NoError(t, err)
	assert.Equal(t, "/etc/ssl/ghe.pem", host.CAFile)

	require.NoError(t, h.run("", "config", "get-hosts"))
	assert.Contains(t, h.out.String(), "* ghe")
	assert.Contains(t, h.out.String(), "  github.com")

	require.NoError(t, h.run("", "config", "view"))
	assert.Contains(t, h.out.String(), "client-id: Iv1.abc")

	err = h.run("", "config", "use-host", "missing")
	assert.EqualError(t, err, "host not found: missing")

	err = h.run("", "config", "add-host", "bad", "ftp://nope")
	assert.Error(t, err)
}

func TestConfigInitWithHost(t *testing.T) {
	clearEnv(t)
	h := &harness{t: t, configPath: filepath.Join(t.TempDir(), "config.yaml")}

	require.NoError(t, h.run("", "config", "init", "--client-id", "id", "--host-name", "corp", "--host-url", "ghe.corp.example"))
	cfg, err := config.Load(h.configPath)
	require.NoError(t, err)
	assert.Equal(t, "corp", cfg.CurrentHost)
	require.Len(t, cfg.Hosts, 2)
}

func TestConfigMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	h := &harness{t: t, configPath: filepath.Join(t.TempDir(), "absent.yaml")}

	require.NoError(t, h.run("", "config", "get-hosts"))
	assert.Contains(t, h.out.String(), "* github.com")
}
