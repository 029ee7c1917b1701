// Package cli implements the pixelbar command-line interface.
//
// # Command Structure
//
// The root command is "pixelbar"; with no subcommand it behaves like run:
//
//	pixelbar run         - Animate the display until interrupted
//	pixelbar routines    - List fillers and bars
//	pixelbar config      - Print the effective config as YAML
//	pixelbar version     - Print build information
//	pixelbar completion  - Generate shell completions
//
// # Configuration
//
// Settings resolve in increasing precedence: built-in defaults, PIXELBAR_*
// environment variables, then flags actually given on the command line.
// Flags and variables share one set of viper keys, so run and config
// always agree on the result.
//
// # Exit Status
//
// 0 after Ctrl-C or a quit key, 3 when --time-limit is reached, 1 for
// configuration, hardware and probe errors.
package cli
