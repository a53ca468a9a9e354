package login

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/metrics"
	"github.com/telekom/ghlogin/pkg/system"
)

// Login method label values
const (
	MethodPassword = "password"
	MethodCache    = "cache"
	MethodToken    = "token"
	MethodOAuth    = "oauth"
	MethodDevice   = "device"
)

// Usernames staged while a token's owner is not known yet.
const (
	tokenPlaceholderUser = "[token]"
	oauthPlaceholderUser = "[oauth]"
)

// Manager logs users in to GitHub hosts. It holds no per-login state and may
// be shared by concurrent logins to different hosts.
type Manager struct {
	keychain   Keychain
	twoFactor  TwoFactorChallengeHandler
	listener   OAuthListener
	httpClient *http.Client
	cfg        Config
	log        *zap.SugaredLogger
}

type Option func(*Manager)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithOAuthListener enables LoginViaOAuth.
func WithOAuthListener(listener OAuthListener) Option {
	return func(m *Manager) {
		m.listener = listener
	}
}

// WithHTTPClient sets the client used for OAuth token and device endpoints.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

func NewManager(keychain Keychain, twoFactor TwoFactorChallengeHandler, cfg Config, opts ...Option) (*Manager, error) {
	if keychain == nil {
		return nil, errors.New("keychain is required")
	}
	if twoFactor == nil {
		return nil, errors.New("two-factor challenge handler is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		keychain:  keychain,
		twoFactor: twoFactor,
		cfg:       cfg.withDefaults(),
		log:       zap.S(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func checkTarget(host hostaddress.HostAddress, client Client) error {
	if host.IsZero() {
		return errors.New("host address is required")
	}
	if client == nil {
		return errors.New("client is required")
	}
	return nil
}

// Login authenticates with username and password, obtains an authorization
// token for the configured application and verifies it.
func (m *Manager) Login(ctx context.Context, host hostaddress.HostAddress, client Client, username, password string) (*SessionUser, error) {
	if err := checkTarget(host, client); err != nil {
		return nil, err
	}
	if username == "" {
		return nil, errors.New("username is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	log := m.log.With(system.HostFields(host, MethodPassword)...)
	metrics.LoginAttempts.WithLabelValues(host.Title(), MethodPassword).Inc()
	log.Debugw("Starting login", "username", username)

	if err := m.stage(username, password, host); err != nil {
		m.recordOutcome(host, MethodPassword, metrics.OutcomeFailure)
		return nil, err
	}

	auth, err := m.obtainAuthorization(ctx, log, host, client, password)
	if err != nil {
		m.recordOutcome(host, MethodPassword, metrics.OutcomeFailure)
		return nil, err
	}

	if err := m.stage(username, auth.Token, host); err != nil {
		m.recordOutcome(host, MethodPassword, metrics.OutcomeFailure)
		return nil, m.fail(host, err)
	}

	user, err := m.verify(ctx, host, client)
	if err != nil {
		m.recordOutcome(host, MethodPassword, metrics.OutcomeFailure)
		return nil, m.fail(host, err)
	}

	m.recordOutcome(host, MethodPassword, metrics.OutcomeSuccess)
	log.Infow("Logged in", "login", user.User.Login)
	return user, nil
}

// LoginFromCache verifies the credentials already in the keychain. Nothing is
// staged or removed.
func (m *Manager) LoginFromCache(ctx context.Context, host hostaddress.HostAddress, client Client) (*SessionUser, error) {
	if err := checkTarget(host, client); err != nil {
		return nil, err
	}
	metrics.LoginAttempts.WithLabelValues(host.Title(), MethodCache).Inc()

	user, err := m.verify(ctx, host, client)
	if err != nil {
		m.recordOutcome(host, MethodCache, metrics.OutcomeFailure)
		return nil, err
	}
	m.recordOutcome(host, MethodCache, metrics.OutcomeSuccess)
	return user, nil
}

// LoginWithToken verifies an existing token and stores it under its owner's login.
func (m *Manager) LoginWithToken(ctx context.Context, host hostaddress.HostAddress, client Client, token string) (*SessionUser, error) {
	if err := checkTarget(host, client); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errors.New("token is required")
	}
	metrics.LoginAttempts.WithLabelValues(host.Title(), MethodToken).Inc()
	return m.adoptToken(ctx, host, client, tokenPlaceholderUser, token, MethodToken)
}

// Logout removes the stored credentials for host.
func (m *Manager) Logout(ctx context.Context, host hostaddress.HostAddress, client Client) error {
	if err := checkTarget(host, client); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.log.Debugw("Logging out", system.HostFields(host, "")...)
	return m.unstage(host)
}

// adoptToken stages a token under a placeholder user, verifies it and then
// re-stages it under the verified login.
func (m *Manager) adoptToken(ctx context.Context, host hostaddress.HostAddress, client Client, placeholder, token, method string) (*SessionUser, error) {
	log := m.log.With(system.HostFields(host, method)...)
	if err := m.stage(placeholder, token, host); err != nil {
		m.recordOutcome(host, method, metrics.OutcomeFailure)
		return nil, err
	}

	user, err := m.verify(ctx, host, client)
	if err != nil {
		m.recordOutcome(host, method, metrics.OutcomeFailure)
		return nil, m.fail(host, err)
	}

	owner := user.User.Login
	if owner == "" {
		owner = placeholder
	}
	if err := m.stage(owner, token, host); err != nil {
		m.recordOutcome(host, method, metrics.OutcomeFailure)
		return nil, m.fail(host, err)
	}

	m.recordOutcome(host, method, metrics.OutcomeSuccess)
	log.Infow("Logged in", "login", owner)
	return user, nil
}

func (m *Manager) recordOutcome(host hostaddress.HostAddress, method, outcome string) {
	metrics.LoginOutcomes.WithLabelValues(host.Title(), method, outcome).Inc()
}
