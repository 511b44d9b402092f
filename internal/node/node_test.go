package node

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Andreiisthebest/PRLabs/internal/replication"
	"github.com/Andreiisthebest/PRLabs/internal/store"
	"github.com/Andreiisthebest/PRLabs/internal/types"
)

func alwaysConfirm(context.Context, string, types.ReplicateRequest) bool { return true }

func neverConfirm(context.Context, string, types.ReplicateRequest) bool { return false }

func TestLeaderWrite(t *testing.T) {
	s := store.New()
	repl := replication.New([]string{"f1", "f2"}, 2, time.Second, nil, alwaysConfirm)
	l := NewLeader(s, repl)

	resp, err := l.Write(context.Background(), "a", []byte(`"x"`))
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Ok || resp.Confirmations != 2 || resp.Required != 2 || resp.Version != 1 {
		t.Fatalf("got %+v", resp)
	}

	resp, _ = l.Write(context.Background(), "a", []byte(`"y"`))
	if resp.Version != 2 {
		t.Fatalf("second write version %d", resp.Version)
	}
}

func TestLeaderWrite_LocalCommitSurvivesQuorumFailure(t *testing.T) {
	s := store.New()
	repl := replication.New([]string{"f1"}, 1, 50*time.Millisecond, nil, neverConfirm)
	l := NewLeader(s, repl)

	resp, err := l.Write(context.Background(), "a", []byte(`"x"`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Ok {
		t.Fatalf("expected quorum failure, got %+v", resp)
	}

	e, ok := s.Get("a")
	if !ok || e.Version != 1 {
		t.Fatalf("local commit missing: %+v,%v", e, ok)
	}
}

func TestFollowerRejectsWrites(t *testing.T) {
	f := NewFollower(store.New())

	_, err := f.Write(context.Background(), "a", []byte(`"x"`))
	if !errors.Is(err, ErrNotLeader) {
		t.Fatalf("got %v", err)
	}
	if _, ok := f.Get("a"); ok {
		t.Fatal("rejected write mutated state")
	}
}

func TestApply(t *testing.T) {
	f := NewFollower(store.New())

	resp := f.Apply("c", []byte(`"v2"`), 2)
	if !resp.Ok || !resp.Applied || resp.Reason != "" {
		t.Fatalf("got %+v", resp)
	}

	resp = f.Apply("c", []byte(`"old"`), 1)
	if !resp.Ok || resp.Applied || resp.Reason != types.ReasonStaleVersion {
		t.Fatalf("stale apply got %+v", resp)
	}

	e, _ := f.Get("c")
	if e.Version != 2 || string(e.Value) != `"v2"` {
		t.Fatalf("stale apply changed entry: %+v", e)
	}
}

func TestStatus(t *testing.T) {
	s := store.New()
	repl := replication.New([]string{"f1", "f2", "f3"}, 2, time.Second, nil, alwaysConfirm)
	l := NewLeader(s, repl)
	l.Apply("k", []byte(`1`), 1)

	st := l.Status()
	if st.Role != types.RoleLeader || st.Followers != 3 || st.Quorum != 2 || st.Keys != 1 {
		t.Fatalf("got %+v", st)
	}

	f := NewFollower(store.New())
	if st := f.Status(); st.Role != types.RoleFollower {
		t.Fatalf("got %+v", st)
	}
}
