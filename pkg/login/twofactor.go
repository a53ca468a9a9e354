package login

import (
	"context"

	"github.com/telekom/ghlogin/pkg/ghapi"
	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/metrics"
)

// resolveTwoFactor prompts for codes until the host accepts one. It returns
// (nil, nil) when the user asks for a new code; staged credentials are kept in
// that case and removed on every error.
func (m *Manager) resolveTwoFactor(ctx context.Context, host hostaddress.HostAddress, client Client, req ghapi.NewAuthorization, challenge error) (*ghapi.Authorization, error) {
	for {
		delivery := ghapi.TwoFactorTypeOf(challenge)
		metrics.TwoFactorChallenges.WithLabelValues(host.Title(), delivery.String()).Inc()

		result, err := m.twoFactor.HandleTwoFactor(ctx, challenge)
		if err != nil {
			m.recordTwoFactor(host, metrics.OutcomeFailure)
			return nil, m.fail(host, err)
		}
		if result == nil {
			m.recordTwoFactor(host, metrics.OutcomeFailure)
			return nil, m.fail(host, invariantError("two-factor challenge handler returned no result"))
		}
		if result.ResendRequested {
			m.recordTwoFactor(host, metrics.OutcomeResendRequested)
			return nil, nil
		}

		auth, err := m.requestAuthorization(ctx, host, client, req, result.Code)
		if ghapi.IsTwoFactorRequired(err) {
			m.log.Infow("Second-factor code rejected", "host", host.Title(), "delivery", delivery.String())
			challenge = err
			continue
		}
		if err != nil {
			m.recordTwoFactor(host, metrics.OutcomeFailure)
			m.twoFactor.ChallengeFailed(ctx, err)
			return nil, m.fail(host, err)
		}
		if auth == nil {
			m.recordTwoFactor(host, metrics.OutcomeFailure)
			return nil, m.fail(host, invariantError("authorization request returned no result"))
		}

		m.recordTwoFactor(host, metrics.OutcomeSuccess)
		return auth, nil
	}
}

func (m *Manager) recordTwoFactor(host hostaddress.HostAddress, outcome string) {
	metrics.TwoFactorOutcomes.WithLabelValues(host.Title(), outcome).Inc()
}
