package ghapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrorKind tags an API failure so callers can branch without inspecting status codes.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTwoFactorRequired
	KindUnauthorized
	KindForbidden
	KindLoginAttemptsExceeded
	KindRateLimited
	KindNotFound
	KindUnprocessable
)

func (k ErrorKind) String() string {
	switch k {
	case KindTwoFactorRequired:
		return "two-factor-required"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindLoginAttemptsExceeded:
		return "login-attempts-exceeded"
	case KindRateLimited:
		return "rate-limited"
	case KindNotFound:
		return "not-found"
	case KindUnprocessable:
		return "unprocessable"
	default:
		return "unknown"
	}
}

// TwoFactorType is how the host delivers second-factor codes.
type TwoFactorType int

const (
	TwoFactorNone TwoFactorType = iota
	TwoFactorUnknown
	TwoFactorSMS
	TwoFactorAuthenticatorApp
)

func (t TwoFactorType) String() string {
	switch t {
	case TwoFactorNone:
		return "none"
	case TwoFactorSMS:
		return "sms"
	case TwoFactorAuthenticatorApp:
		return "app"
	default:
		return "unknown"
	}
}

type HTTPError struct {
	StatusCode       int
	Kind             ErrorKind
	Message          string
	DocumentationURL string
	// TwoFactorType is set for KindTwoFactorRequired
	TwoFactorType TwoFactorType
	// ChallengeFailed means a code was sent and rejected
	ChallengeFailed bool
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// Classify returns the kind and status code of err, or KindUnknown and 0 when
// err did not come from an API response.
func Classify(err error) (ErrorKind, int) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Kind, httpErr.StatusCode
	}
	return KindUnknown, 0
}

func IsTwoFactorRequired(err error) bool {
	kind, _ := Classify(err)
	return kind == KindTwoFactorRequired
}

func IsUnauthorized(err error) bool {
	kind, _ := Classify(err)
	return kind == KindUnauthorized
}

// TwoFactorTypeOf returns the delivery method carried by a two-factor error.
func TwoFactorTypeOf(err error) TwoFactorType {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Kind == KindTwoFactorRequired {
		return httpErr.TwoFactorType
	}
	return TwoFactorNone
}

func decodeError(resp *resty.Response, otpSent bool) error {
	var apiErr struct {
		Message          string `json:"message"`
		DocumentationURL string `json:"documentation_url"`
	}
	body := resp.Body()
	if len(body) > 0 {
		_ = json.Unmarshal(body, &apiErr)
	}
	msg := strings.TrimSpace(apiErr.Message)
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = resp.Status()
	}
	httpErr := &HTTPError{
		StatusCode:       resp.StatusCode(),
		Message:          msg,
		DocumentationURL: apiErr.DocumentationURL,
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		if tfa, ok := parseOTPHeader(resp.Header().Get(otpHeader)); ok {
			httpErr.Kind = KindTwoFactorRequired
			httpErr.TwoFactorType = tfa
			httpErr.ChallengeFailed = otpSent
		} else {
			httpErr.Kind = KindUnauthorized
		}
	case http.StatusForbidden:
		switch {
		case strings.Contains(strings.ToLower(msg), "maximum number of login attempts exceeded"):
			httpErr.Kind = KindLoginAttemptsExceeded
		case resp.Header().Get("X-RateLimit-Remaining") == "0":
			httpErr.Kind = KindRateLimited
		default:
			httpErr.Kind = KindForbidden
		}
	case http.StatusNotFound:
		httpErr.Kind = KindNotFound
	case http.StatusUnprocessableEntity:
		httpErr.Kind = KindUnprocessable
	default:
		httpErr.Kind = KindUnknown
	}
	return httpErr
}

// parseOTPHeader reads "required; sms" / "required; app".
func parseOTPHeader(value string) (TwoFactorType, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if !strings.HasPrefix(value, "required") {
		return TwoFactorNone, false
	}
	_, method, _ := strings.Cut(value, ";")
	switch strings.TrimSpace(method) {
	case "sms":
		return TwoFactorSMS, true
	case "app":
		return TwoFactorAuthenticatorApp, true
	default:
		return TwoFactorUnknown, true
	}
}
