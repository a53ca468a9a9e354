package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/telekom/ghlogin/pkg/ghapi"
	"github.com/telekom/ghlogin/pkg/login"
)

// TwoFactorHandler asks for second-factor codes on the terminal. An empty
// answer or "r" requests a new code.
type TwoFactorHandler struct {
	prompter *Prompter
}

func NewTwoFactorHandler(p *Prompter) *TwoFactorHandler {
	return &TwoFactorHandler{prompter: p}
}

func (h *TwoFactorHandler) HandleTwoFactor(ctx context.Context, challenge error) (*login.TwoFactorChallengeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var httpErr *ghapi.HTTPError
	if errors.As(challenge, &httpErr) && httpErr.ChallengeFailed {
		h.prompter.Printf("That code was not accepted.\n")
	}
	switch ghapi.TwoFactorTypeOf(challenge) {
	case ghapi.TwoFactorSMS:
		h.prompter.Printf("A two-factor code was sent to your phone.\n")
	case ghapi.TwoFactorAuthenticatorApp:
		h.prompter.Printf("Open your two-factor authenticator app to view your code.\n")
	}

	code, err := h.prompter.Line("Two-factor code (leave empty or enter r to resend): ")
	if err != nil {
		return nil, err
	}
	if code == "" || strings.EqualFold(code, "r") {
		return login.ResendCode(), nil
	}
	return login.WithCode(code), nil
}

func (h *TwoFactorHandler) ChallengeFailed(_ context.Context, err error) {
	h.prompter.Printf("Two-factor authentication failed: %v\n", err)
}

// NonInteractive fails every challenge.
type NonInteractive struct{}

func (NonInteractive) HandleTwoFactor(context.Context, error) (*login.TwoFactorChallengeResult, error) {
	return nil, ErrInteractionDisabled
}

func (NonInteractive) ChallengeFailed(context.Context, error) {}
