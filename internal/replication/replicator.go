package replication

import (
	"context"
	"math/rand"
	"time"

	"github.com/Andreiisthebest/PRLabs/internal/types"
)

// PushFunc sends one replicate request to a follower endpoint and reports
// whether the follower confirmed it. Any failure mode (network error,
// non-success status, timeout) is a plain false; which follower failed is
// never surfaced past this boundary.
type PushFunc func(ctx context.Context, endpoint string, req types.ReplicateRequest) bool

// DelayFunc returns the simulated network latency to wait before a single
// push. It is an instrumentation hook, not a correctness requirement;
// tests inject nil to disable it.
type DelayFunc func() time.Duration

// Result is the aggregated outcome of one replication round.
type Result struct {
	Ok            bool
	Confirmations int
	Required      int
}

// Replicator fans a committed write out to every follower concurrently
// and waits for confirmations up to the quorum or the timeout.
type Replicator struct {
	followers []string
	quorum    int
	timeout   time.Duration
	delay     DelayFunc
	push      PushFunc
}

// New creates a replicator for a static follower list. delay may be nil.
func New(followers []string, quorum int, timeout time.Duration, delay DelayFunc, push PushFunc) *Replicator {
	return &Replicator{
		followers: append([]string(nil), followers...),
		quorum:    quorum,
		timeout:   timeout,
		delay:     delay,
		push:      push,
	}
}

// UniformDelay returns a DelayFunc drawing uniformly from [min, max].
// It returns nil when the bounds are zero.
func UniformDelay(min, max time.Duration) DelayFunc {
	if max <= 0 {
		return nil
	}
	return func() time.Duration {
		return min + time.Duration(rand.Int63n(int64(max-min)+1))
	}
}

// Replicate pushes (key, value, version) to every follower and counts
// confirmations in completion order. It returns as soon as the count
// reaches the quorum, when every push has reported, or when the timeout
// elapses. Pushes that are still in flight at that point are not
// cancelled: the acks channel is buffered to the follower count, so they
// run to completion in the background and their followers still apply
// the update; their results are simply discarded.
func (r *Replicator) Replicate(ctx context.Context, key string, value []byte, version int64) Result {
	req := types.ReplicateRequest{Key: key, Value: value, Version: version}

	acks := make(chan bool, len(r.followers))
	for _, endpoint := range r.followers {
		go func(endpoint string) {
			if r.delay != nil {
				time.Sleep(r.delay())
			}
			// The per-push timeout starts after the simulated delay;
			// detached pushes must outlive the caller's request, so the
			// context is not derived from ctx.
			pushCtx, cancel := context.WithTimeout(context.Background(), r.timeout)
			defer cancel()
			acks <- r.push(pushCtx, endpoint, req)
		}(endpoint)
	}

	// quorum <= 0 is satisfied immediately: replication stays
	// fire-and-forget and nothing is waited on.
	if r.quorum <= 0 {
		return Result{Ok: true, Confirmations: 0, Required: r.quorum}
	}

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	confirmations := 0
	for pending := len(r.followers); pending > 0 && confirmations < r.quorum; pending-- {
		select {
		case ok := <-acks:
			if ok {
				confirmations++
			}
		case <-timer.C:
			return Result{Ok: confirmations >= r.quorum, Confirmations: confirmations, Required: r.quorum}
		case <-ctx.Done():
			return Result{Ok: confirmations >= r.quorum, Confirmations: confirmations, Required: r.quorum}
		}
	}

	return Result{Ok: confirmations >= r.quorum, Confirmations: confirmations, Required: r.quorum}
}

// Quorum returns the configured write quorum.
func (r *Replicator) Quorum() int { return r.quorum }

// Followers returns the number of configured followers.
func (r *Replicator) Followers() int { return len(r.followers) }
