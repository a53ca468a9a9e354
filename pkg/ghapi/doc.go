// Package ghapi is a small REST client for the parts of the GitHub API used to
// log in: application authorizations and the authenticated user. Failures are
// returned as *HTTPError tagged with an ErrorKind.
package ghapi
