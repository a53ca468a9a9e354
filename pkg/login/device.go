package login

import (
	"context"
	"fmt"

	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/metrics"
)

// DevicePrompt is shown to the user while the device flow waits.
type DevicePrompt struct {
	VerificationURI string
	UserCode        string
}

// LoginViaDevice runs the OAuth device flow. notify is called once the user
// code is known; polling honours the interval requested by the host.
func (m *Manager) LoginViaDevice(ctx context.Context, host hostaddress.HostAddress, client Client, notify func(DevicePrompt)) (*SessionUser, error) {
	if err := checkTarget(host, client); err != nil {
		return nil, err
	}
	metrics.LoginAttempts.WithLabelValues(host.Title(), MethodDevice).Inc()

	oauthCfg := m.oauthConfig(host, "")
	oauthCtx := m.oauthContext(ctx)

	deviceAuth, err := oauthCfg.DeviceAuth(oauthCtx)
	if err != nil {
		m.recordOutcome(host, MethodDevice, metrics.OutcomeFailure)
		return nil, fmt.Errorf("device authorization failed: %w", err)
	}

	prompt := DevicePrompt{VerificationURI: deviceAuth.VerificationURIComplete, UserCode: deviceAuth.UserCode}
	if prompt.VerificationURI == "" {
		prompt.VerificationURI = deviceAuth.VerificationURI
	}
	if notify != nil {
		notify(prompt)
	}

	token, err := oauthCfg.DeviceAccessToken(oauthCtx, deviceAuth)
	if err != nil {
		m.recordOutcome(host, MethodDevice, metrics.OutcomeFailure)
		return nil, fmt.Errorf("device token error: %w", err)
	}
	return m.adoptToken(ctx, host, client, oauthPlaceholderUser, token.AccessToken, MethodDevice)
}
