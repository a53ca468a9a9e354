package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telekom/ghlogin/pkg/ghapi"
	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/keychain"
	"github.com/telekom/ghlogin/pkg/system"
)

var (
	dotCom     = hostaddress.GitHubDotCom
	enterprise = hostaddress.MustCreate("https://ghe.example.com")
)

func testConfig() Config {
	return Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Note:         "ghlogin on test",
		Fingerprint:  "abc123",
		VerifyDelay:  time.Millisecond,
	}
}

func newTestManager(t *testing.T, kc Keychain, handler TwoFactorChallengeHandler, cfg Config, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithLogger(system.NewTestLogger())}, opts...)
	m, err := NewManager(kc, handler, cfg, opts...)
	require.NoError(t, err)
	return m
}

// recordingKeychain is a MemoryStore that records every mutation.
type recordingKeychain struct {
	*keychain.MemoryStore
	mu        sync.Mutex
	ops       []string
	deleteErr error
}

func newRecordingKeychain() *recordingKeychain {
	return &recordingKeychain{MemoryStore: keychain.NewMemoryStore()}
}

func (k *recordingKeychain) Save(username, secret string, host hostaddress.HostAddress) error {
	k.mu.Lock()
	k.ops = append(k.ops, fmt.Sprintf("save %s:%s", username, secret))
	k.mu.Unlock()
	return k.MemoryStore.Save(username, secret, host)
}

func (k *recordingKeychain) Delete(host hostaddress.HostAddress) error {
	k.mu.Lock()
	k.ops = append(k.ops, "delete")
	k.mu.Unlock()
	if k.deleteErr != nil {
		return k.deleteErr
	}
	return k.MemoryStore.Delete(host)
}

func (k *recordingKeychain) deletes() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	n := 0
	for _, op := range k.ops {
		if op == "delete" {
			n++
		}
	}
	return n
}

func (k *recordingKeychain) stored(t *testing.T, host hostaddress.HostAddress) (keychain.Credentials, bool) {
	t.Helper()
	creds, ok, err := k.Load(host)
	require.NoError(t, err)
	return creds, ok
}

type authResponse struct {
	auth *ghapi.Authorization
	err  error
}

type userResponse struct {
	user *ghapi.AuthenticatedUser
	err  error
}

// scriptedClient replays queued responses and records the credentials staged
// in the keychain at the time of every call.
type scriptedClient struct {
	keychain Keychain
	host     hostaddress.HostAddress

	creates []authResponse
	users   []userResponse

	createOTPs     []string
	createCreds    []keychain.Credentials
	createRequests []ghapi.NewAuthorization
	deletedIDs     []int64
	deleteErr      error
	userCreds      []keychain.Credentials
}

func (c *scriptedClient) staged() keychain.Credentials {
	if c.keychain == nil {
		return keychain.Credentials{}
	}
	creds, _, _ := c.keychain.Load(c.host)
	return creds
}

func (c *scriptedClient) GetOrCreateAuthorization(_ context.Context, clientID, clientSecret string, req ghapi.NewAuthorization, otp string) (*ghapi.Authorization, error) {
	if clientID != "client-id" || clientSecret != "client-secret" {
		return nil, errors.New("unexpected client credentials")
	}
	c.createOTPs = append(c.createOTPs, otp)
	c.createCreds = append(c.createCreds, c.staged())
	c.createRequests = append(c.createRequests, req)
	if len(c.creates) == 0 {
		return nil, errors.New("unexpected GetOrCreateAuthorization call")
	}
	next := c.creates[0]
	c.creates = c.creates[1:]
	return next.auth, next.err
}

func (c *scriptedClient) DeleteAuthorization(_ context.Context, id int64, _ string) error {
	c.deletedIDs = append(c.deletedIDs, id)
	return c.deleteErr
}

func (c *scriptedClient) CurrentUser(_ context.Context) (*ghapi.AuthenticatedUser, error) {
	c.userCreds = append(c.userCreds, c.staged())
	if len(c.users) == 0 {
		return nil, errors.New("unexpected CurrentUser call")
	}
	next := c.users[0]
	c.users = c.users[1:]
	return next.user, next.err
}

type challengeResponse struct {
	result *TwoFactorChallengeResult
	err    error
}

type scriptedHandler struct {
	responses  []challengeResponse
	challenges []error
	failures   []error
}

func (h *scriptedHandler) HandleTwoFactor(_ context.Context, challenge error) (*TwoFactorChallengeResult, error) {
	h.challenges = append(h.challenges, challenge)
	if len(h.responses) == 0 {
		return nil, errors.New("unexpected two-factor challenge")
	}
	next := h.responses[0]
	h.responses = h.responses[1:]
	return next.result, next.err
}

func (h *scriptedHandler) ChallengeFailed(_ context.Context, err error) {
	h.failures = append(h.failures, err)
}

func created(token string) authResponse {
	return authResponse{auth: &ghapi.Authorization{ID: 42, Token: token}}
}

func createdEmpty(id int64) authResponse {
	return authResponse{auth: &ghapi.Authorization{ID: id}}
}

func failedWith(err error) authResponse {
	return authResponse{err: err}
}

func octocat(scopes ...string) userResponse {
	return userResponse{user: &ghapi.AuthenticatedUser{
		User:           ghapi.User{Login: "octocat", ID: 1},
		Scopes:         scopes,
		ScopesReported: scopes != nil,
	}}
}

func apiError(status int, kind ghapi.ErrorKind) *ghapi.HTTPError {
	return &ghapi.HTTPError{StatusCode: status, Kind: kind, Message: http.StatusText(status)}
}

func twoFactorRequired(challengeFailed bool) *ghapi.HTTPError {
	return &ghapi.HTTPError{
		StatusCode:      http.StatusUnauthorized,
		Kind:            ghapi.KindTwoFactorRequired,
		Message:         "Must specify two-factor authentication OTP code.",
		TwoFactorType:   ghapi.TwoFactorAuthenticatorApp,
		ChallengeFailed: challengeFailed,
	}
}

func unauthorized() *ghapi.HTTPError {
	return apiError(http.StatusUnauthorized, ghapi.KindUnauthorized)
}
