// Package cli wires the gitmigrate root command, configuration loading, and
// structured logging around the migration subcommand.
package cli
