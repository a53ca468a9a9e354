// Package login establishes a verified session against a GitHub host.
//
// Manager.Login creates (or reuses) an application authorization with the
// user's password, walking through second-factor challenges, deleting
// authorizations the host returns without a token, and falling back to using
// the password as a token on enterprise hosts that lack the authorization
// endpoint. Every resulting token is confirmed with a /user fetch before a
// SessionUser is returned. Staged credentials are removed from the keychain
// on every failure path except the enterprise fallback.
//
// LoginWithToken, LoginViaOAuth and LoginViaDevice obtain a token by other
// means and share the same staging and verification steps.
package login
