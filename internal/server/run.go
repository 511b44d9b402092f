package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Andreiisthebest/PRLabs/internal/config"
	"github.com/Andreiisthebest/PRLabs/internal/httpapi"
	"github.com/Andreiisthebest/PRLabs/internal/metrics"
	"github.com/Andreiisthebest/PRLabs/internal/node"
	"github.com/Andreiisthebest/PRLabs/internal/replication"
	"github.com/Andreiisthebest/PRLabs/internal/store"
	"github.com/Andreiisthebest/PRLabs/internal/types"
)

// Run wires together the node components from the process configuration
// and serves the HTTP API until interrupted.
func Run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	return runWithConfig(cfg)
}

func runWithConfig(cfg config.Config) error {
	st := store.New()
	m := metrics.New(string(cfg.Role), st.Len)

	var n node.Node
	switch cfg.Role {
	case types.RoleLeader:
		repl := replication.New(
			cfg.Followers,
			cfg.WriteQuorum,
			cfg.ReplTimeout,
			replication.UniformDelay(cfg.MinDelay, cfg.MaxDelay),
			replication.HTTPPusher(&http.Client{Timeout: cfg.ReplTimeout}),
		)
		n = node.NewLeader(st, repl)
		log.Printf("starting leader on port %d: followers=%d quorum=%d delay=[%s,%s] timeout=%s",
			cfg.Port, len(cfg.Followers), cfg.WriteQuorum, cfg.MinDelay, cfg.MaxDelay, cfg.ReplTimeout)
	default:
		n = node.NewFollower(st)
		log.Printf("starting follower on port %d", cfg.Port)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpapi.New(n, m).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
