// Package execshell wraps operating-system command execution with structured
// logging, typed failures, and credential-safe event messages for the git
// invocations issued during a migration run.
package execshell
