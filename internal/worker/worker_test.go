package worker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

// fakeProcesses stands in for the OS process table
type fakeProcesses struct {
	live     map[int]string
	signaled []int
	nextPID  int
}

func installFakes(t *testing.T) *fakeProcesses {
	t.Helper()
	f := &fakeProcesses{live: map[int]string{}, nextPID: 1000}

	oldFind, oldSignal := findProcessFunc, signalFunc
	t.Cleanup(func() { findProcessFunc, signalFunc = oldFind, oldSignal })

	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := f.live[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
	signalFunc = func(pid int) error {
		f.signaled = append(f.signaled, pid)
		delete(f.live, pid)
		return nil
	}
	return f
}

func (f *fakeProcesses) spawn(tokens *[]string) SpawnFunc {
	return func(name, token string) (int, error) {
		f.nextPID++
		f.live[f.nextPID] = "liftlog"
		*tokens = append(*tokens, token)
		return f.nextPID, nil
	}
}

func TestEnqueueReplacesPreviousWorker(t *testing.T) {
	procs := installFakes(t)
	var tokens []string
	m := NewManager(t.TempDir(), "liftlog", procs.spawn(&tokens))

	first, err := m.Enqueue("countdown")
	require.NoError(t, err)

	info, err := m.Status("countdown")
	require.NoError(t, err)
	assert.Equal(t, 1001, info.PID)
	assert.Equal(t, first, info.Token)
	assert.True(t, info.Alive)

	owned, err := m.Owns("countdown", first)
	require.NoError(t, err)
	assert.True(t, owned)

	second, err := m.Enqueue("countdown")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, []int{1001}, procs.signaled, "previous worker is interrupted")

	owned, _ = m.Owns("countdown", first)
	assert.False(t, owned, "replaced token no longer owns the name")
	owned, _ = m.Owns("countdown", second)
	assert.True(t, owned)
	assert.Len(t, tokens, 2)
}

func TestCancelIsIdempotent(t *testing.T) {
	procs := installFakes(t)
	var tokens []string
	m := NewManager(t.TempDir(), "liftlog", procs.spawn(&tokens))

	require.NoError(t, m.Cancel("countdown"), "cancel with nothing enqueued")

	token, err := m.Enqueue("countdown")
	require.NoError(t, err)

	require.NoError(t, m.Cancel("countdown"))
	require.NoError(t, m.Cancel("countdown"))

	owned, err := m.Owns("countdown", token)
	require.NoError(t, err)
	assert.False(t, owned)

	_, err = m.Status("countdown")
	assert.ErrorIs(t, err, ErrNoWorker)
	assert.Equal(t, []int{1001}, procs.signaled)
}

func TestCancelSkipsDeadOrForeignProcesses(t *testing.T) {
	procs := installFakes(t)
	dir := t.TempDir()
	m := NewManager(dir, "liftlog", nil)

	procs.live[77] = "firefox"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "countdown.lock"), []byte("77|abc"), 0600))

	info, err := m.Status("countdown")
	require.NoError(t, err)
	assert.False(t, info.Alive)

	require.NoError(t, m.Cancel("countdown"))
	assert.Empty(t, procs.signaled)
}

func TestCancelDiscardsMalformedLockfile(t *testing.T) {
	installFakes(t)
	dir := t.TempDir()
	m := NewManager(dir, "", nil)
	lock := filepath.Join(dir, "countdown.lock")

	for _, content := range []string{"garbage", "abc|token", "12|"} {
		require.NoError(t, os.WriteFile(lock, []byte(content), 0600))
		_, err := m.Status("countdown")
		assert.Error(t, err, content)
		assert.NoError(t, m.Cancel("countdown"), content)
		_, err = os.Stat(lock)
		assert.True(t, os.IsNotExist(err), content)
	}
}

func TestEnqueueSpawnFailure(t *testing.T) {
	installFakes(t)
	m := NewManager(t.TempDir(), "liftlog", func(string, string) (int, error) {
		return 0, errors.New("exec format error")
	})

	_, err := m.Enqueue("countdown")
	require.Error(t, err)

	_, err = m.Status("countdown")
	assert.ErrorIs(t, err, ErrNoWorker, "failed spawn must not leave a lockfile")
}

func TestRelease(t *testing.T) {
	procs := installFakes(t)
	var tokens []string
	m := NewManager(t.TempDir(), "liftlog", procs.spawn(&tokens))

	old, _ := m.Enqueue("countdown")
	current, _ := m.Enqueue("countdown")

	require.NoError(t, m.Release("countdown", old))
	owned, _ := m.Owns("countdown", current)
	assert.True(t, owned, "a stale worker must not release its successor's lock")

	require.NoError(t, m.Release("countdown", current))
	_, err := m.Status("countdown")
	assert.ErrorIs(t, err, ErrNoWorker)
}

func TestRunDir(t *testing.T) {
	assert.Equal(t, filepath.Join("cfg", "run"), RunDir("cfg"))
}
