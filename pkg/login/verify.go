package login

import (
	"context"

	"github.com/telekom/ghlogin/pkg/ghapi"
	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/metrics"
	"github.com/telekom/ghlogin/pkg/utils"
)

// verify fetches the current user with the staged credentials. Unauthorized
// responses are retried since a freshly created token can take a moment to
// become valid.
func (m *Manager) verify(ctx context.Context, host hostaddress.HostAddress, client Client) (*SessionUser, error) {
	retry := utils.FixedDelay(m.cfg.VerifyAttempts, m.cfg.VerifyDelay)
	user, err := utils.Retry(ctx, retry, ghapi.IsUnauthorized, func(ctx context.Context, attempt int) (*ghapi.AuthenticatedUser, error) {
		if attempt > 1 {
			metrics.TokenVerificationRetries.WithLabelValues(host.Title()).Inc()
		}
		return client.CurrentUser(ctx)
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invariantError("user fetch returned no result")
	}
	if err := checkScopes(m.cfg.MinimumScopes, user); err != nil {
		return nil, err
	}
	return &SessionUser{User: user.User, Scopes: user.Scopes}, nil
}
