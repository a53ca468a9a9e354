package login

import (
	"strings"

	"github.com/telekom/ghlogin/pkg/ghapi"
)

func checkScopes(required []string, user *ghapi.AuthenticatedUser) error {
	if len(required) == 0 {
		return nil
	}
	if !user.ScopesReported {
		return &IncorrectScopesError{Required: required}
	}
	for _, scope := range required {
		if !scopeGranted(scope, user.Scopes) {
			return &IncorrectScopesError{Required: required, Granted: user.Scopes, Reported: true}
		}
	}
	return nil
}

func scopeGranted(required string, granted []string) bool {
	for _, g := range granted {
		if g == required || impliesScope(g, required) {
			return true
		}
	}
	return false
}

// impliesScope follows the admin > write > read hierarchy and the repo/user
// parent scopes.
func impliesScope(granted, required string) bool {
	if base, ok := strings.CutPrefix(required, "read:"); ok {
		if granted == "write:"+base || granted == "admin:"+base {
			return true
		}
	}
	if base, ok := strings.CutPrefix(required, "write:"); ok && granted == "admin:"+base {
		return true
	}
	switch granted {
	case "repo":
		return required == "public_repo" || strings.HasPrefix(required, "repo:")
	case "user":
		return required == "read:user" || strings.HasPrefix(required, "user:")
	}
	return false
}
