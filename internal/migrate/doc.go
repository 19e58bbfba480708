// Package migrate orchestrates one finite migration run: discovery of the
// owned repository set, idempotent destination provisioning, mirror transfer,
// and the final run summary with its pass/fail signal.
package migrate
