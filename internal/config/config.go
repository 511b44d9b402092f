// Package config loads the process-lifetime node configuration. Every
// setting can come from a flag or, when the flag is left at its default,
// from the environment variable the deployment scripts set. The result
// is immutable for the process lifetime.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Andreiisthebest/PRLabs/internal/types"
)

// Config is the static role configuration of a node.
type Config struct {
	Role        types.Role
	Port        int
	Followers   []string // leader only; normalized endpoint URLs
	WriteQuorum int
	MinDelay    time.Duration // simulated per-follower latency bounds
	MaxDelay    time.Duration
	ReplTimeout time.Duration
}

// Load parses args (without the program name) into a Config, falling back
// to environment variables for flags that were not provided.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("kvnode", flag.ContinueOnError)

	role := fs.String("role", envStr("ROLE", "follower"), "Node role: leader or follower")
	port := fs.Int("port", envInt("PORT", 8000), "HTTP listen port")
	followers := fs.String("followers", envStr("FOLLOWERS", ""), "Comma-separated follower endpoints (leader only)")
	quorum := fs.Int("quorum", envInt("WRITE_QUORUM", 1), "Follower confirmations required for a successful write")
	minDelay := fs.Int("min-delay", envInt("MIN_DELAY", 0), "Minimum simulated replication delay in ms")
	maxDelay := fs.Int("max-delay", envInt("MAX_DELAY", 0), "Maximum simulated replication delay in ms")
	replTimeout := fs.Float64("repl-timeout", envFloat("REPL_TIMEOUT", 5.0), "Replication timeout in seconds")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Role:        types.Role(*role),
		Port:        *port,
		Followers:   ParseFollowers(*followers),
		WriteQuorum: *quorum,
		MinDelay:    time.Duration(*minDelay) * time.Millisecond,
		MaxDelay:    time.Duration(*maxDelay) * time.Millisecond,
		ReplTimeout: time.Duration(*replTimeout * float64(time.Second)),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if !c.Role.Valid() {
		return fmt.Errorf("invalid role %q (expected leader or follower)", c.Role)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return fmt.Errorf("invalid delay bounds [%s, %s]", c.MinDelay, c.MaxDelay)
	}
	if c.ReplTimeout <= 0 {
		return fmt.Errorf("replication timeout must be positive, got %s", c.ReplTimeout)
	}
	if c.Role == types.RoleFollower && len(c.Followers) > 0 {
		return fmt.Errorf("followers list is only valid on the leader")
	}
	return nil
}

// ParseFollowers splits a comma-separated endpoint list, trimming blanks
// and prefixing bare host:port entries with http://.
func ParseFollowers(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !strings.HasPrefix(f, "http") {
			f = "http://" + f
		}
		out = append(out, strings.TrimSuffix(f, "/"))
	}
	return out
}

func envStr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
