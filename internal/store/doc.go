// Package store provides the versioned in-memory key-value store shared
// by every request handler on a node. Each entry carries a monotonically
// increasing per-key version; conditional application of pushed updates
// against that version is the sole conflict-resolution mechanism.
package store
