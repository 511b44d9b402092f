package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/Andreiisthebest/PRLabs/internal/types"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Role != types.RoleFollower || cfg.Port != 8000 {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.WriteQuorum != 1 || cfg.ReplTimeout != 5*time.Second {
		t.Fatalf("got %+v", cfg)
	}
	if len(cfg.Followers) != 0 {
		t.Fatalf("got followers %v", cfg.Followers)
	}
}

func TestLoadLeader(t *testing.T) {
	cfg, err := Load([]string{
		"-role", "leader",
		"-port", "8000",
		"-followers", "follower1:8001, http://follower2:8002,",
		"-quorum", "2",
		"-min-delay", "10",
		"-max-delay", "50",
		"-repl-timeout", "2.5",
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"http://follower1:8001", "http://follower2:8002"}
	if !reflect.DeepEqual(cfg.Followers, want) {
		t.Fatalf("followers = %v, want %v", cfg.Followers, want)
	}
	if cfg.MinDelay != 10*time.Millisecond || cfg.MaxDelay != 50*time.Millisecond {
		t.Fatalf("delays = %s,%s", cfg.MinDelay, cfg.MaxDelay)
	}
	if cfg.ReplTimeout != 2500*time.Millisecond {
		t.Fatalf("timeout = %s", cfg.ReplTimeout)
	}
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("ROLE", "leader")
	t.Setenv("FOLLOWERS", "f1:8001")
	t.Setenv("WRITE_QUORUM", "3")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Role != types.RoleLeader || cfg.WriteQuorum != 3 {
		t.Fatalf("got %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Followers, []string{"http://f1:8001"}) {
		t.Fatalf("got followers %v", cfg.Followers)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := [][]string{
		{"-role", "primary"},
		{"-port", "0"},
		{"-min-delay", "50", "-max-delay", "10"},
		{"-repl-timeout", "0"},
		{"-followers", "f1:8001"}, // followers on a follower node
	}
	for _, args := range cases {
		if _, err := Load(args); err == nil {
			t.Errorf("Load(%v): expected error", args)
		}
	}
}

func TestParseFollowers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"a:1,b:2", []string{"http://a:1", "http://b:2"}},
		{"https://a:1/", []string{"https://a:1"}},
	}
	for _, tt := range tests {
		if got := ParseFollowers(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFollowers(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
