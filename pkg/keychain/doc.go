// Package keychain stores the username and secret used to authenticate
// against a GitHub host, keyed by host address. Backends: the operating
// system keychain, a JSON file, or process memory.
package keychain
