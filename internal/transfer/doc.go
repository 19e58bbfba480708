// Package transfer replicates full repository history by mirror-cloning from
// the source service into an ephemeral workspace and mirror-pushing the
// result to the destination.
package transfer
