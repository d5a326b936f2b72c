// Package cli implements the termdash command-line interface.
//
// The root command runs the live dashboard. Subcommands cover the cases
// that don't need a terminal:
//
//	termdash                - live dashboard (q or Esc quits)
//	termdash snapshot       - sample twice and print the state as YAML
//	termdash version        - print build information
//	termdash completion sh  - print a shell completion script
//
// # Flag Handling
//
// Dashboard flags are persistent on the root command, so snapshot sees
// the same --interval, --mount and --processes. Every flag can also be
// set through a TERMDASH_* environment variable; internal/config resolves
// and validates them.
package cli
