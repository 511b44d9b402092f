// Command loadgen issues concurrent writes against a leader and reports
// success counts and latency percentiles.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/Andreiisthebest/PRLabs/internal/types"
)

func main() {
	addr := flag.String("addr", "http://localhost:8000", "Leader address")
	n := flag.Int("n", 100, "Total number of writes")
	concurrency := flag.Int("c", 10, "Concurrent workers")
	keys := flag.Int("keys", 10, "Number of distinct keys to cycle through")
	timeout := flag.Duration("timeout", 10*time.Second, "Per-request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}

	jobs := make(chan int)
	results := make(chan sample, *n)

	var wg sync.WaitGroup
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- writeOnce(client, *addr, fmt.Sprintf("k_%d", i%(*keys)), fmt.Sprintf("v_%d", i))
			}
		}()
	}

	start := time.Now()
	for i := 0; i < *n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(results)
	elapsed := time.Since(start)

	var latencies []time.Duration
	okCount, failCount, errCount := 0, 0, 0
	for s := range results {
		if s.err != nil {
			errCount++
			continue
		}
		latencies = append(latencies, s.latency)
		if s.ok {
			okCount++
		} else {
			failCount++
		}
	}

	fmt.Printf("%d writes in %s (%d workers, %d keys)\n", *n, elapsed.Round(time.Millisecond), *concurrency, *keys)
	fmt.Printf("  ok=%d quorum_failed=%d errors=%d\n", okCount, failCount, errCount)

	if len(latencies) == 0 {
		log.Println("no successful requests")
		os.Exit(1)
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	var total time.Duration
	for _, l := range latencies {
		total += l
	}
	fmt.Printf("  latency mean=%s p50=%s p95=%s max=%s\n",
		(total / time.Duration(len(latencies))).Round(time.Microsecond),
		percentile(latencies, 50).Round(time.Microsecond),
		percentile(latencies, 95).Round(time.Microsecond),
		latencies[len(latencies)-1].Round(time.Microsecond),
	)
}

type sample struct {
	latency time.Duration
	ok      bool
	err     error
}

func writeOnce(client *http.Client, addr, key, value string) (s sample) {
	body, _ := json.Marshal(types.SetRequest{Key: key, Value: mustJSON(value)})

	start := time.Now()
	resp, err := client.Post(addr+"/set", "application/json", bytes.NewReader(body))
	s.latency = time.Since(start)
	if err != nil {
		s.err = err
		return s
	}
	defer resp.Body.Close()

	var out types.SetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		s.err = err
		return s
	}
	if resp.StatusCode != http.StatusOK {
		s.err = fmt.Errorf("status %d", resp.StatusCode)
		return s
	}
	s.ok = out.Ok
	return s
}

func mustJSON(v string) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func percentile(sorted []time.Duration, p int) time.Duration {
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
