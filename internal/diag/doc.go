// Package diag provides leveled diagnostics output for the CLI.
//
// Messages are written as prefixed single lines, suitable for terminals
// and log capture. Three verbosity levels are supported: quiet (warnings
// and errors only), info and debug.
package diag
