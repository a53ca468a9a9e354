// Package cmd implements the cobra command tree for the ghlogin CLI: logging
// in to GitHub hosts, inspecting and removing stored credentials, managing the
// config file, and shell completion.
package cmd
