package ghapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/keychain"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, hostaddress.HostAddress) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	host, err := hostaddress.Create(server.URL)
	require.NoError(t, err)
	return server, host
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{
			name:    "missing host",
			opts:    []Option{},
			wantErr: true,
		},
		{
			name:    "zero host",
			opts:    []Option{WithHost(hostaddress.HostAddress{})},
			wantErr: true,
		},
		{
			name: "dotcom host",
			opts: []Option{WithHost(hostaddress.GitHubDotCom), WithToken("test-token")},
		},
		{
			name: "explicit server",
			opts: []Option{WithServer("https://example.com/api/v3")},
		},
		{
			name:    "invalid timeout",
			opts:    []Option{WithHost(hostaddress.GitHubDotCom), WithTimeout(0)},
			wantErr: true,
		},
		{
			name:    "missing CA file",
			opts:    []Option{WithHost(hostaddress.GitHubDotCom), WithTLSConfig("/nonexistent/ca.pem", false)},
			wantErr: true,
		},
		{
			name: "rate limited",
			opts: []Option{WithHost(hostaddress.GitHubDotCom), WithRateLimit(5, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, client)
			} else {
				require.NoError(t, err)
				require.NotNil(t, client)
			}
		})
	}
}

func TestClientAuthenticatesFromKeychain(t *testing.T) {
	store := keychain.NewMemoryStore()
	var gotUser, gotPass string
	var gotOK bool
	_, host := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, mediaType, r.Header.Get("Accept"))
		writeJSON(w, http.StatusOK, map[string]any{"login": "octocat", "id": 1})
	})

	client, err := New(WithHost(host), WithKeychain(store), WithUserAgent("test-agent"))
	require.NoError(t, err)

	// No entry yet: unauthenticated request
	_, err = client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.False(t, gotOK)

	// The entry is read per request, so staging changes take effect immediately
	require.NoError(t, store.Save("octocat", "hunter2", host))
	_, err = client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.True(t, gotOK)
	assert.Equal(t, "octocat", gotUser)
	assert.Equal(t, "hunter2", gotPass)

	require.NoError(t, store.Save("octocat", "token-abc", host))
	_, err = client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-abc", gotPass)
}

func TestClientBearerToken(t *testing.T) {
	_, host := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"login": "octocat"})
	})

	client, err := New(WithHost(host), WithToken("test-token"))
	require.NoError(t, err)
	_, err = client.CurrentUser(context.Background())
	require.NoError(t, err)
}

func TestClientRateLimitHonoursContext(t *testing.T) {
	_, host := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "octocat"})
	})
	client, err := New(WithHost(host), WithRateLimit(0.001, 1))
	require.NoError(t, err)

	_, err = client.CurrentUser(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.CurrentUser(ctx)
	require.Error(t, err)
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{
		StatusCode: http.StatusForbidden,
		Message:    "access denied",
	}
	require.Equal(t, "request failed (403): access denied", err.Error())
}
