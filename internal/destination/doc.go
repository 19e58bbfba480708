// Package destination provisions repositories on the migration target,
// tolerating pre-existing repositories so reruns stay idempotent.
package destination
