// Package cmd implements the partext subcommands. Each command reads the
// snapshot and store paths from context values placed there by the cli
// package, so commands never parse flags themselves.
package cmd
