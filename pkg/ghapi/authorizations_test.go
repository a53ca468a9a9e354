package ghapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateAuthorization(t *testing.T) {
	var gotPath, gotOTP string
	var gotBody map[string]any
	_, host := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		gotOTP = r.Header.Get("X-GitHub-OTP")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":     42,
			"token":  "gho_abc",
			"note":   "ghlogin on box",
			"scopes": []string{"user", "repo"},
		})
	})
	client, err := New(WithHost(host))
	require.NoError(t, err)

	auth, err := client.GetOrCreateAuthorization(context.Background(), "client-id", "client-secret", NewAuthorization{
		Scopes:      []string{"user", "repo"},
		Note:        "ghlogin on box",
		Fingerprint: "abc123",
	}, "123456")
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/authorizations/clients/client-id/abc123", gotPath)
	assert.Equal(t, "123456", gotOTP)
	assert.Equal(t, "client-secret", gotBody["client_secret"])
	assert.Equal(t, "ghlogin on box", gotBody["note"])
	assert.Equal(t, int64(42), auth.ID)
	assert.Equal(t, "gho_abc", auth.Token)
}

func TestGetOrCreateAuthorization_NoFingerprintNoOTP(t *testing.T) {
	_, host := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/authorizations/clients/client-id", r.URL.Path)
		_, present := r.Header["X-Github-Otp"]
		assert.False(t, present)
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "token": ""})
	})
	client, err := New(WithHost(host))
	require.NoError(t, err)

	auth, err := client.GetOrCreateAuthorization(context.Background(), "client-id", "secret", NewAuthorization{}, "")
	require.NoError(t, err)
	assert.Empty(t, auth.Token)
	assert.Equal(t, int64(7), auth.ID)
}

func TestDeleteAuthorization(t *testing.T) {
	var gotMethod, gotPath, gotOTP string
	_, host := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotOTP = r.Method, r.URL.Path, r.Header.Get("X-GitHub-OTP")
		w.WriteHeader(http.StatusNoContent)
	})
	client, err := New(WithHost(host))
	require.NoError(t, err)

	require.NoError(t, client.DeleteAuthorization(context.Background(), 99, "654321"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v3/authorizations/99", gotPath)
	assert.Equal(t, "654321", gotOTP)
}
