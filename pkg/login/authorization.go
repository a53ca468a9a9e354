package login

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/telekom/ghlogin/pkg/ghapi"
	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/metrics"
	"github.com/telekom/ghlogin/pkg/utils"
)

// errEmptyToken marks an authorization the host returned without its token.
var errEmptyToken = errors.New("authorization returned without a token")

// emptyTokenRetry allows one re-create after deleting a dead authorization.
var emptyTokenRetry = utils.FixedDelay(2, 0)

func (m *Manager) newAuthorization() ghapi.NewAuthorization {
	return ghapi.NewAuthorization{
		Scopes:      append([]string(nil), m.cfg.Scopes...),
		Note:        m.cfg.Note,
		Fingerprint: m.cfg.Fingerprint,
	}
}

// obtainAuthorization runs create-authorization rounds until a token is
// obtained. Rounds end early on a resend request, which starts a fresh round.
// Staged credentials are removed on every failure except the enterprise
// fallback, which returns the password as the token.
func (m *Manager) obtainAuthorization(ctx context.Context, log *zap.SugaredLogger, host hostaddress.HostAddress, client Client, password string) (*ghapi.Authorization, error) {
	req := m.newAuthorization()

	for attempt := 1; attempt <= m.cfg.MaxAuthorizationAttempts; attempt++ {
		auth, err := m.requestAuthorization(ctx, host, client, req, "")
		switch {
		case ghapi.IsTwoFactorRequired(err):
			auth, err = m.resolveTwoFactor(ctx, host, client, req, err)
			if err != nil {
				return nil, err
			}
			if auth == nil {
				log.Infow("Second-factor code resend requested", "attempt", attempt)
				continue
			}
		case err != nil:
			if fallsBackToBasicAuth(host, err) {
				kind, status := ghapi.Classify(err)
				log.Infow("Host does not support authorizations, using password as token",
					"kind", kind.String(),
					"status", status,
				)
				metrics.EnterpriseFallbacks.WithLabelValues(host.Title()).Inc()
				return &ghapi.Authorization{Token: password}, nil
			}
			return nil, m.fail(host, err)
		case auth == nil:
			return nil, m.fail(host, invariantError("authorization request returned no result"))
		}

		if auth.Token != "" {
			return auth, nil
		}
		log.Warnw("Authorization still has no token after cleanup", "attempt", attempt, "id", auth.ID)
	}

	return nil, m.fail(host, ErrAuthorizationAttemptsExceeded)
}

// requestAuthorization creates or reuses the authorization. An authorization
// without a token is deleted and requested once more; a second empty result is
// returned as is.
func (m *Manager) requestAuthorization(ctx context.Context, host hostaddress.HostAddress, client Client, req ghapi.NewAuthorization, otp string) (*ghapi.Authorization, error) {
	isEmptyToken := func(err error) bool { return errors.Is(err, errEmptyToken) }

	auth, err := utils.Retry(ctx, emptyTokenRetry, isEmptyToken, func(ctx context.Context, attempt int) (*ghapi.Authorization, error) {
		metrics.AuthorizationRequests.WithLabelValues(host.Title()).Inc()
		auth, err := client.GetOrCreateAuthorization(ctx, m.cfg.ClientID, m.cfg.ClientSecret, req, otp)
		if err != nil {
			return nil, err
		}
		if auth == nil || auth.Token != "" {
			return auth, nil
		}

		m.log.Debugw("Deleting authorization returned without a token",
			"host", host.Title(),
			"id", auth.ID,
			"attempt", attempt,
		)
		if err := client.DeleteAuthorization(ctx, auth.ID, otp); err != nil {
			return nil, err
		}
		metrics.DeadAuthorizationsDeleted.WithLabelValues(host.Title()).Inc()
		return auth, errEmptyToken
	})
	if isEmptyToken(err) {
		return auth, nil
	}
	return auth, err
}
