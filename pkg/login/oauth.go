package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/metrics"
)

// OAuthEndpoint returns the web flow and device flow endpoints of host.
func OAuthEndpoint(host hostaddress.HostAddress) oauth2.Endpoint {
	base := host.WebURL()
	return oauth2.Endpoint{
		AuthURL:       base + "login/oauth/authorize",
		TokenURL:      base + "login/oauth/access_token",
		DeviceAuthURL: base + "login/device/code",
		AuthStyle:     oauth2.AuthStyleInParams,
	}
}

func (m *Manager) oauthConfig(host hostaddress.HostAddress, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     m.cfg.ClientID,
		ClientSecret: m.cfg.ClientSecret,
		Endpoint:     OAuthEndpoint(host),
		RedirectURL:  redirectURL,
		Scopes:       append([]string(nil), m.cfg.Scopes...),
	}
}

func (m *Manager) oauthContext(ctx context.Context) context.Context {
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}

// LoginViaOAuth runs the OAuth web flow. openBrowser receives the
// authorization URL; a failure to open it is logged and the flow keeps
// waiting for the redirect.
func (m *Manager) LoginViaOAuth(ctx context.Context, host hostaddress.HostAddress, client Client, openBrowser func(url string) error) (*SessionUser, error) {
	if err := checkTarget(host, client); err != nil {
		return nil, err
	}
	if m.listener == nil {
		return nil, errors.New("no OAuth callback listener configured")
	}
	metrics.LoginAttempts.WithLabelValues(host.Title(), MethodOAuth).Inc()

	state := uuid.NewString()
	oauthCfg := m.oauthConfig(host, m.listener.RedirectURL())
	authURL := oauthCfg.AuthCodeURL(state)

	type callback struct {
		code string
		err  error
	}
	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	callbackCh := make(chan callback, 1)
	go func() {
		code, err := m.listener.Listen(listenCtx, state)
		callbackCh <- callback{code: code, err: err}
	}()

	if openBrowser != nil {
		if err := openBrowser(authURL); err != nil {
			m.log.Warnw("Failed to open browser", "url", authURL, "error", err)
		}
	}

	var result callback
	select {
	case <-ctx.Done():
		m.recordOutcome(host, MethodOAuth, metrics.OutcomeFailure)
		return nil, ctx.Err()
	case result = <-callbackCh:
	}
	if result.err != nil {
		m.recordOutcome(host, MethodOAuth, metrics.OutcomeFailure)
		return nil, result.err
	}

	token, err := oauthCfg.Exchange(m.oauthContext(ctx), result.code)
	if err != nil {
		m.recordOutcome(host, MethodOAuth, metrics.OutcomeFailure)
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return m.adoptToken(ctx, host, client, oauthPlaceholderUser, token.AccessToken, MethodOAuth)
}
