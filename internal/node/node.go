package node

import (
	"context"
	"errors"

	"github.com/Andreiisthebest/PRLabs/internal/replication"
	"github.com/Andreiisthebest/PRLabs/internal/store"
	"github.com/Andreiisthebest/PRLabs/internal/types"
)

// ErrNotLeader is returned when a write reaches a node that is not the
// leader. No state is mutated.
var ErrNotLeader = errors.New("only the leader accepts writes")

// Node is the role-dependent behavior behind the HTTP API. The variant is
// chosen once at startup; handlers never branch on role themselves.
type Node interface {
	Role() types.Role

	// Write handles an external client write. Only the leader variant
	// mutates state; the follower variant returns ErrNotLeader.
	Write(ctx context.Context, key string, value []byte) (types.SetResponse, error)

	// Apply handles an update pushed by the leader. Stale deliveries are
	// a normal outcome, reported with applied=false.
	Apply(key string, value []byte, version int64) types.ReplicateResponse

	Get(key string) (types.Entry, bool)
	Dump() map[string]types.Entry
	Status() types.NodeStatus
}

// base carries the behavior shared by both roles: conditional application
// of pushed updates and the read paths.
type base struct {
	store *store.Store
}

func (b *base) Apply(key string, value []byte, version int64) types.ReplicateResponse {
	if b.store.ApplyIfNewer(key, value, version) {
		return types.ReplicateResponse{Ok: true, Applied: true}
	}
	return types.ReplicateResponse{Ok: true, Applied: false, Reason: types.ReasonStaleVersion}
}

func (b *base) Get(key string) (types.Entry, bool) {
	return b.store.Get(key)
}

func (b *base) Dump() map[string]types.Entry {
	return b.store.Snapshot()
}

// Leader accepts external writes and orchestrates replication.
type Leader struct {
	base
	repl *replication.Replicator
}

// NewLeader creates the leader variant over an explicitly owned store.
func NewLeader(s *store.Store, repl *replication.Replicator) *Leader {
	return &Leader{base: base{store: s}, repl: repl}
}

func (l *Leader) Role() types.Role { return types.RoleLeader }

// Write atomically assigns the next version for key, commits locally,
// then waits on the replication round. The local commit always stands:
// the leader's own copy is authoritative for this version even when
// quorum is not reached.
func (l *Leader) Write(ctx context.Context, key string, value []byte) (types.SetResponse, error) {
	version := l.store.Commit(key, value)
	res := l.repl.Replicate(ctx, key, value, version)
	return types.SetResponse{
		Ok:            res.Ok,
		Confirmations: res.Confirmations,
		Required:      res.Required,
		Version:       version,
	}, nil
}

func (l *Leader) Status() types.NodeStatus {
	return types.NodeStatus{
		Role:      types.RoleLeader,
		Followers: l.repl.Followers(),
		Quorum:    l.repl.Quorum(),
		Keys:      l.store.Len(),
	}
}

// Follower only accepts pushed replication updates and read queries.
type Follower struct {
	base
}

// NewFollower creates the follower variant over an explicitly owned store.
func NewFollower(s *store.Store) *Follower {
	return &Follower{base: base{store: s}}
}

func (f *Follower) Role() types.Role { return types.RoleFollower }

func (f *Follower) Write(context.Context, string, []byte) (types.SetResponse, error) {
	return types.SetResponse{}, ErrNotLeader
}

func (f *Follower) Status() types.NodeStatus {
	return types.NodeStatus{
		Role: types.RoleFollower,
		Keys: f.store.Len(),
	}
}
