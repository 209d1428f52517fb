// Package clitest builds command contexts backed by a throwaway sqlite store.
package clitest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/storage/sqlite"
	"github.com/julianstephens/liftlog/internal/worker"
)

// Spawns counts countdown workers started through the context's manager
type Spawns struct {
	Tokens []string
}

// NewContext returns an initialized context whose worker manager records
// spawns instead of starting processes. The store is closed on cleanup.
func NewContext(t *testing.T) (*cli.Context, *Spawns) {
	t.Helper()
	dir := t.TempDir()

	store := sqlite.NewStore(filepath.Join(dir, "liftlog.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	spawns := &Spawns{}
	workers := worker.NewManager(worker.RunDir(dir), "", func(name, token string) (int, error) {
		spawns.Tokens = append(spawns.Tokens, token)
		return 0, nil
	})

	cfg := config.Default()
	cfg.Notifications.Enabled = false
	return cli.NewContext(context.Background(), store, cfg, dir, workers), spawns
}
