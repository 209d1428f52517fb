// Package worker keeps at most one detached background process per name.
// Each process is tracked by a lockfile holding "pid|token"; enqueueing a
// name again replaces the previous process.
package worker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/go-ps"
	"go.uber.org/multierr"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	signalFunc      = signalProcess
)

// ErrNoWorker is returned when no lockfile exists for a name
var ErrNoWorker = errors.New("no worker registered")

// SpawnFunc starts the background process for name and returns its pid.
// The process must call Owns(name, token) each iteration and exit once it
// no longer owns the name.
type SpawnFunc func(name, token string) (pid int, err error)

// Info describes the registered worker for a name
type Info struct {
	Name  string
	PID   int
	Token string
	Alive bool
}

type Manager struct {
	dir        string
	spawn      SpawnFunc
	executable string
}

// NewManager tracks workers in dir. executable is the process name expected
// for live workers; empty accepts any process.
func NewManager(dir string, executable string, spawn SpawnFunc) *Manager {
	return &Manager{dir: dir, spawn: spawn, executable: executable}
}

// RunDir returns the lockfile directory under the liftlog config dir
func RunDir(configDir string) string {
	return filepath.Join(configDir, constants.WorkerRunDir)
}

func (m *Manager) lockPath(name string) string {
	return filepath.Join(m.dir, name+constants.WorkerLockExt)
}

// Enqueue replaces any existing worker for name with a fresh one and returns
// the new run token
func (m *Manager) Enqueue(name string) (string, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	if err := m.Cancel(name); err != nil {
		logger.Warn("Failed to cancel previous worker", "name", name, "error", err)
	}

	token := uuid.NewString()
	// Claim the name before spawning so the new process owns it from its first check
	if err := m.writeLock(name, 0, token); err != nil {
		return "", err
	}

	pid, err := m.spawn(name, token)
	if err != nil {
		return "", multierr.Append(fmt.Errorf("failed to start worker %s: %w", name, err), m.removeLock(name))
	}

	if owned, _ := m.Owns(name, token); owned {
		if err := m.writeLock(name, pid, token); err != nil {
			return "", err
		}
	}

	logger.Debug("Enqueued worker", "name", name, "pid", pid, "token", token)
	return token, nil
}

// Cancel removes the worker's lockfile and interrupts its process.
// Cancelling a name with no worker is not an error.
func (m *Manager) Cancel(name string) error {
	info, err := m.Status(name)
	if errors.Is(err, ErrNoWorker) {
		return nil
	}

	if err != nil {
		logger.Warn("Discarding unreadable worker lockfile", "name", name, "error", err)
		return m.removeLock(name)
	}

	errs := m.removeLock(name)
	if info.Alive && info.PID != os.Getpid() {
		errs = multierr.Append(errs, signalFunc(info.PID))
	}
	return errs
}

// Owns reports whether token is still the registered run for name
func (m *Manager) Owns(name, token string) (bool, error) {
	_, current, err := m.readLock(name)
	if errors.Is(err, ErrNoWorker) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return current == token, nil
}

// Release removes the lockfile if token still owns it. Workers call it on exit.
func (m *Manager) Release(name, token string) error {
	owned, err := m.Owns(name, token)
	if err != nil || !owned {
		return err
	}
	return m.removeLock(name)
}

// Status reads the lockfile for name and checks whether its process is alive
func (m *Manager) Status(name string) (Info, error) {
	pid, token, err := m.readLock(name)
	if err != nil {
		return Info{}, err
	}
	return Info{Name: name, PID: pid, Token: token, Alive: m.alive(pid)}, nil
}

func (m *Manager) alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	if m.executable == "" {
		return true
	}
	// go-ps may report a truncated command name
	exe := process.Executable()
	return strings.HasPrefix(m.executable, exe) || strings.HasPrefix(exe, m.executable)
}

func (m *Manager) readLock(name string) (int, string, error) {
	content, err := os.ReadFile(m.lockPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, "", ErrNoWorker
		}
		return 0, "", err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, "", errors.New("worker lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", errors.New("invalid process ID in worker lockfile")
	}
	if strings.TrimSpace(parts[1]) == "" {
		return 0, "", errors.New("token in worker lockfile is empty")
	}
	return pid, parts[1], nil
}

func (m *Manager) writeLock(name string, pid int, token string) error {
	tmp := m.lockPath(name) + ".tmp"
	if err := os.WriteFile(tmp, []byte(fmt.Sprintf("%d|%s", pid, token)), 0600); err != nil {
		return fmt.Errorf("failed to write worker lockfile: %w", err)
	}
	if err := os.Rename(tmp, m.lockPath(name)); err != nil {
		return fmt.Errorf("failed to write worker lockfile: %w", err)
	}
	return nil
}

func (m *Manager) removeLock(name string) error {
	if err := os.Remove(m.lockPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove worker lockfile: %w", err)
	}
	return nil
}

func signalProcess(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := p.Signal(os.Interrupt); err != nil {
		// os.Interrupt is not supported everywhere
		return p.Kill()
	}
	return nil
}
