package store

import (
	"fmt"
	"sync"
	"testing"
)

func TestCommitAssignsSequentialVersions(t *testing.T) {
	s := New()

	for i := 1; i <= 5; i++ {
		v := s.Commit("a", []byte(`"x"`))
		if v != int64(i) {
			t.Fatalf("commit %d: got version %d", i, v)
		}
	}

	e, ok := s.Get("a")
	if !ok || e.Version != 5 {
		t.Fatalf("got %+v,%v", e, ok)
	}
}

func TestCommitIsPerKey(t *testing.T) {
	s := New()
	s.Commit("a", []byte(`1`))
	s.Commit("a", []byte(`2`))

	if v := s.Commit("b", []byte(`1`)); v != 1 {
		t.Fatalf("independent key got version %d", v)
	}
}

func TestGetMissing(t *testing.T) {
	s := New()
	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected missing")
	}
}

func TestApplyIfNewer(t *testing.T) {
	s := New()

	if !s.ApplyIfNewer("k", []byte(`"v1"`), 1) {
		t.Fatal("fresh key: expected applied")
	}
	if !s.ApplyIfNewer("k", []byte(`"v3"`), 3) {
		t.Fatal("higher version: expected applied")
	}

	// equal and lower versions are stale
	if s.ApplyIfNewer("k", []byte(`"dup"`), 3) {
		t.Fatal("duplicate version: expected rejected")
	}
	if s.ApplyIfNewer("k", []byte(`"old"`), 2) {
		t.Fatal("lower version: expected rejected")
	}

	e, _ := s.Get("k")
	if e.Version != 3 || string(e.Value) != `"v3"` {
		t.Fatalf("store changed by stale apply: %+v", e)
	}
}

func TestApplyIfNewerOrderIndependent(t *testing.T) {
	s := New()

	// v=3 delivered before v=2: the later, lower-version delivery loses.
	s.ApplyIfNewer("c", []byte(`"new"`), 3)
	if s.ApplyIfNewer("c", []byte(`"old"`), 2) {
		t.Fatal("out-of-order delivery applied")
	}
	e, _ := s.Get("c")
	if e.Version != 3 || string(e.Value) != `"new"` {
		t.Fatalf("converged to %+v, want version 3", e)
	}
}

func TestApplyIfNewerIdempotent(t *testing.T) {
	s := New()

	if !s.ApplyIfNewer("k", []byte(`"v"`), 1) {
		t.Fatal("first apply rejected")
	}
	before, _ := s.Get("k")
	if s.ApplyIfNewer("k", []byte(`"v"`), 1) {
		t.Fatal("second apply of same version accepted")
	}
	after, _ := s.Get("k")
	if after.Version != before.Version || string(after.Value) != string(before.Value) {
		t.Fatalf("state changed: %+v -> %+v", before, after)
	}
}

func TestSnapshotDoesNotAliasStore(t *testing.T) {
	s := New()
	s.Commit("a", []byte(`"x"`))

	snap := s.Snapshot()
	snap["a"].Value[1] = 'y'

	e, _ := s.Get("a")
	if string(e.Value) != `"x"` {
		t.Fatalf("snapshot mutation leaked into store: %s", e.Value)
	}
}

func TestConcurrentCommitsAssignDistinctVersions(t *testing.T) {
	s := New()
	const writers = 50

	versions := make(chan int64, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			versions <- s.Commit("hot", []byte(fmt.Sprintf(`"v%d"`, i)))
		}(i)
	}
	wg.Wait()
	close(versions)

	seen := make(map[int64]bool)
	for v := range versions {
		if seen[v] {
			t.Fatalf("version %d assigned twice", v)
		}
		seen[v] = true
	}

	e, _ := s.Get("hot")
	if e.Version != writers {
		t.Fatalf("final version %d, want %d", e.Version, writers)
	}
}
