package login

import (
	"net/http"

	"github.com/telekom/ghlogin/pkg/ghapi"
	"github.com/telekom/ghlogin/pkg/hostaddress"
)

// ShouldFallBackToBasicAuth reports whether a failed authorization request
// means the host has no authorization endpoint and the password itself should
// be used as the token. Only enterprise hosts fall back, and only on 404, on a
// 403 that is neither a lockout nor a rate limit, or on 422.
func ShouldFallBackToBasicAuth(host hostaddress.HostAddress, kind ghapi.ErrorKind, statusCode int) bool {
	if host.IsGitHubDotCom() {
		return false
	}
	switch kind {
	case ghapi.KindNotFound, ghapi.KindForbidden:
		return true
	}
	return statusCode == http.StatusUnprocessableEntity
}

func fallsBackToBasicAuth(host hostaddress.HostAddress, err error) bool {
	kind, status := ghapi.Classify(err)
	return ShouldFallBackToBasicAuth(host, kind, status)
}
