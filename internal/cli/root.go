package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/backup"
	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/repository"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/storage/sqlite"
	"github.com/julianstephens/liftlog/internal/timer"
	"github.com/julianstephens/liftlog/internal/widget"
	"github.com/julianstephens/liftlog/internal/worker"
)

type Context struct {
	Ctx       context.Context
	Store     storage.Provider
	Repo      *repository.Repository
	Timers    *timer.Service
	Workers   *worker.Manager
	Host      *widget.Host
	Config    config.Config
	ConfigDir string
}

// NewContext wires the repository, timer service and widget host around store
func NewContext(ctx context.Context, store storage.Provider, cfg config.Config, configDir string, workers *worker.Manager) *Context {
	repo := repository.New(store)
	timers := timer.New(store)
	return &Context{
		Ctx:       ctx,
		Store:     store,
		Repo:      repo,
		Timers:    timers,
		Workers:   workers,
		Host:      widget.NewHost(repo, timers, workers, cfg.Worker.Name),
		Config:    cfg,
		ConfigDir: configDir,
	}
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors.
// Only file-backed stores are backed up.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseTimers parses a comma-separated list of rest durations such as "30,90s"
func ParseTimers(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var timers []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(part)), "s")
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid timer: %q", part)
		}
		timers = append(timers, n)
	}
	return timers, nil
}

// ParseIDs parses a comma-separated list of card IDs
func ParseIDs(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid card ID: %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FormatTimers renders timers as "30s, 90s"
func FormatTimers(timers []int) string {
	if len(timers) == 0 {
		return "none"
	}
	labels := make([]string, len(timers))
	for i, t := range timers {
		labels[i] = fmt.Sprintf("%ds", t)
	}
	return strings.Join(labels, ", ")
}

// FormatTime renders t in local time for CLI output
func FormatTime(t time.Time) string {
	return t.Local().Format(constants.DateTimeFormat)
}
