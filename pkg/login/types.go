package login

import (
	"context"

	"github.com/telekom/ghlogin/pkg/ghapi"
	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/keychain"
)

// Keychain stores the credentials the API client authenticates with.
type Keychain interface {
	Load(host hostaddress.HostAddress) (keychain.Credentials, bool, error)
	Save(username, secret string, host hostaddress.HostAddress) error
	Delete(host hostaddress.HostAddress) error
}

// Client is the subset of the host API used to log in. Implementations
// authenticate with the keychain entry for their host.
type Client interface {
	GetOrCreateAuthorization(ctx context.Context, clientID, clientSecret string, req ghapi.NewAuthorization, otp string) (*ghapi.Authorization, error)
	DeleteAuthorization(ctx context.Context, id int64, otp string) error
	CurrentUser(ctx context.Context) (*ghapi.AuthenticatedUser, error)
}

// TwoFactorChallengeHandler asks the user for a second-factor code.
type TwoFactorChallengeHandler interface {
	// HandleTwoFactor is called with the two-factor error returned by the host,
	// including after a rejected code. It must not return a nil result without
	// an error.
	HandleTwoFactor(ctx context.Context, challenge error) (*TwoFactorChallengeResult, error)
	// ChallengeFailed reports a non two-factor failure after a code was submitted.
	ChallengeFailed(ctx context.Context, err error)
}

// TwoFactorChallengeResult is either a code or a request to resend one.
type TwoFactorChallengeResult struct {
	ResendRequested bool
	Code            string
}

func ResendCode() *TwoFactorChallengeResult {
	return &TwoFactorChallengeResult{ResendRequested: true}
}

func WithCode(code string) *TwoFactorChallengeResult {
	return &TwoFactorChallengeResult{Code: code}
}

// SessionUser is the identity confirmed by a successful /user fetch.
type SessionUser struct {
	User   ghapi.User `json:"user" yaml:"user"`
	Scopes []string   `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

// OAuthListener receives the browser redirect of the OAuth web flow.
type OAuthListener interface {
	RedirectURL() string
	// Listen blocks until a redirect carrying state arrives and returns its code.
	Listen(ctx context.Context, state string) (string, error)
}
