package types

import "encoding/json"

// Role determines which code paths a node runs. It is fixed at process
// start and never changes for the node's lifetime.
type Role string

const (
	RoleLeader   Role = "leader"
	RoleFollower Role = "follower"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleLeader || r == RoleFollower
}

// Entry is a stored value together with its per-key version. The version
// is non-decreasing over the node's lifetime for a given key.
type Entry struct {
	Value   json.RawMessage `json:"value"`
	Version int64           `json:"version"`
}

// SetRequest is the body of POST /set. The value is an opaque JSON
// payload; the store never interprets it.
type SetRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// SetResponse reports the outcome of a leader write. Ok is true when
// Confirmations reached Required within the replication timeout. The
// local commit stands either way.
type SetResponse struct {
	Ok            bool  `json:"ok"`
	Confirmations int   `json:"confirmations"`
	Required      int   `json:"required"`
	Version       int64 `json:"version"`
}

// ReplicateRequest is the body of POST /replicate, pushed by the leader.
type ReplicateRequest struct {
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
	Version int64           `json:"version"`
}

// ReasonStaleVersion is the reason code for an update whose version does
// not exceed the currently stored one.
const ReasonStaleVersion = "stale_version"

// ReplicateResponse reports whether a pushed update was applied. A stale
// update is a normal outcome, not an error: Ok stays true and Reason is
// set to ReasonStaleVersion.
type ReplicateResponse struct {
	Ok      bool   `json:"ok"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// GetResponse is the body of GET /get/{key}.
type GetResponse struct {
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
	Version int64           `json:"version"`
}

// NodeStatus holds status info reported by GET /status.
type NodeStatus struct {
	Role      Role `json:"role"`
	Followers int  `json:"followers"`
	Quorum    int  `json:"quorum"`
	Keys      int  `json:"keys"`
}
