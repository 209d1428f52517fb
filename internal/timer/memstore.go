package timer

import (
	"context"
	"sync"

	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
)

// MemoryStore is an in-process TimerStore, used by tests and by hosts that
// do not need the state to outlive the process
type MemoryStore struct {
	mu    sync.Mutex
	state models.TimerState
}

func NewMemoryStore(initial models.TimerState) *MemoryStore {
	return &MemoryStore{state: initial}
}

func (m *MemoryStore) GetTimerState(context.Context) (models.TimerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *MemoryStore) UpdateTimerState(_ context.Context, fn storage.TimerUpdateFunc) (models.TimerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := storage.ApplyTimerUpdate(m.state, fn)
	if err != nil {
		return m.state, err
	}
	m.state = next
	return next, nil
}
