package login

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/ghlogin/pkg/ghapi"
	"github.com/telekom/ghlogin/pkg/keychain"
	"github.com/telekom/ghlogin/pkg/metrics"
)

func TestLogin_AgainstAPI(t *testing.T) {
	var creates atomic.Int32
	host := newOAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "monalisa", user)

		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/v3/authorizations/clients/client-id/abc123":
			creates.Add(1)
			assert.Equal(t, "hunter2", pass)
			if r.Header.Get("X-GitHub-OTP") != "654321" {
				w.Header().Set("X-GitHub-OTP", "required; sms")
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Must specify two-factor authentication OTP code."})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"id": 9, "token": "gho_api"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v3/user":
			assert.Equal(t, "gho_api", pass)
			w.Header().Set("X-OAuth-Scopes", "repo, user")
			writeJSON(w, http.StatusOK, map[string]any{"login": "octocat", "id": 1})
		default:
			http.NotFound(w, r)
		}
	})

	store := keychain.NewMemoryStore()
	client, err := ghapi.New(ghapi.WithHost(host), ghapi.WithKeychain(store))
	require.NoError(t, err)
	handler := &scriptedHandler{responses: []challengeResponse{{result: WithCode("654321")}}}
	m := newTestManager(t, store, handler, testConfig())

	before := testutil.ToFloat64(metrics.LoginOutcomes.WithLabelValues(host.Title(), MethodPassword, metrics.OutcomeSuccess))
	challengesBefore := testutil.ToFloat64(metrics.TwoFactorChallenges.WithLabelValues(host.Title(), ghapi.TwoFactorSMS.String()))

	user, err := m.Login(context.Background(), host, client, "monalisa", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "octocat", user.User.Login)
	assert.Equal(t, []string{"repo", "user"}, user.Scopes)
	assert.Equal(t, int32(2), creates.Load())
	assert.Equal(t, ghapi.TwoFactorSMS, ghapi.TwoFactorTypeOf(handler.challenges[0]))

	creds, ok, err := store.Load(host)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gho_api", creds.Secret)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.LoginOutcomes.WithLabelValues(host.Title(), MethodPassword, metrics.OutcomeSuccess)))
	assert.Equal(t, challengesBefore+1, testutil.ToFloat64(metrics.TwoFactorChallenges.WithLabelValues(host.Title(), ghapi.TwoFactorSMS.String())))
}
