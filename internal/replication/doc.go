// Package replication implements the leader-side fan-out of committed
// writes to followers with semi-synchronous, quorum-based acknowledgment:
// the leader waits for a subset of followers, not all of them, before a
// write is reported successful. Pushes abandoned after quorum keep
// running detached and still reach their followers.
package replication
