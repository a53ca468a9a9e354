// Package hostaddress identifies the GitHub-compatible server a login targets:
// either github.com or a GitHub Enterprise instance.
package hostaddress
