// Command verify fetches /dump from the leader and every follower and
// diffs the stores: missing keys, extra keys, value mismatches, and
// version mismatches. It exits non-zero when any follower diverges.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/Andreiisthebest/PRLabs/internal/config"
	"github.com/Andreiisthebest/PRLabs/internal/types"
)

func main() {
	leader := flag.String("leader", "http://localhost:8000", "Leader address")
	followers := flag.String("followers", "", "Comma-separated follower addresses")
	timeout := flag.Duration("timeout", 5*time.Second, "Per-request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}

	leaderDump, err := dump(client, *leader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "leader %s: %v\n", *leader, err)
		os.Exit(1)
	}
	fmt.Printf("leader %s: %d keys\n", *leader, len(leaderDump))

	consistent := true
	for _, addr := range config.ParseFollowers(*followers) {
		followerDump, err := dump(client, addr)
		if err != nil {
			fmt.Printf("%s: unreachable: %v\n", addr, err)
			consistent = false
			continue
		}
		diffs := compare(leaderDump, followerDump)
		if len(diffs) == 0 {
			fmt.Printf("%s: consistent (%d keys)\n", addr, len(followerDump))
			continue
		}
		consistent = false
		fmt.Printf("%s: %d differences\n", addr, len(diffs))
		for _, d := range diffs {
			fmt.Printf("  %s\n", d)
		}
	}

	if !consistent {
		os.Exit(1)
	}
}

func dump(client *http.Client, addr string) (map[string]types.Entry, error) {
	resp, err := client.Get(addr + "/dump")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var out map[string]types.Entry
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func compare(leader, follower map[string]types.Entry) []string {
	var diffs []string

	keys := make([]string, 0, len(leader)+len(follower))
	for k := range leader {
		keys = append(keys, k)
	}
	for k := range follower {
		if _, ok := leader[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		le, inLeader := leader[k]
		fe, inFollower := follower[k]
		switch {
		case !inFollower:
			diffs = append(diffs, fmt.Sprintf("missing key %q (leader version %d)", k, le.Version))
		case !inLeader:
			diffs = append(diffs, fmt.Sprintf("extra key %q not on leader", k))
		default:
			if !bytes.Equal(le.Value, fe.Value) {
				diffs = append(diffs, fmt.Sprintf("value mismatch for %q: leader=%s follower=%s", k, le.Value, fe.Value))
			}
			if le.Version != fe.Version {
				diffs = append(diffs, fmt.Sprintf("version mismatch for %q: leader=%d follower=%d", k, le.Version, fe.Version))
			}
		}
	}
	return diffs
}
