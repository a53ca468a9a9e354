// Package utils provides small shared helpers, currently a context-aware
// generic retry loop with a fixed delay between attempts.
package utils
