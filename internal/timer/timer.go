package timer

import (
	"context"
	"slices"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
)

// TickResult reports what a single countdown step did
type TickResult int

const (
	// TickStopped means the timer was not running, nothing changed
	TickStopped TickResult = iota
	// TickDecremented means one second was taken off the clock
	TickDecremented
	// TickCompleted means the threshold was reached and the timer stopped
	TickCompleted
)

func (r TickResult) String() string {
	switch r {
	case TickDecremented:
		return "decremented"
	case TickCompleted:
		return "completed"
	default:
		return "stopped"
	}
}

// Service applies the widget's timer operations to the shared timer record.
// Every operation is a single atomic update of the store.
type Service struct {
	store storage.TimerStore
	now   func() time.Time
}

func New(store storage.TimerStore) *Service {
	return &Service{store: store, now: time.Now}
}

// State returns the current timer state
func (s *Service) State(ctx context.Context) (models.TimerState, error) {
	return s.store.GetTimerState(ctx)
}

// SelectDuration loads a preset onto the clock
func (s *Service) SelectDuration(ctx context.Context, seconds int) (models.TimerState, error) {
	if !constants.IsTimerPreset(seconds) {
		return models.TimerState{}, errors.ErrInvalidTimer
	}
	return s.store.UpdateTimerState(ctx, func(st *models.TimerState) (bool, error) {
		if st.Running {
			return false, errors.ErrTimerRunning
		}
		st.SelectedSeconds = seconds
		st.RemainingSeconds = seconds
		return true, nil
	})
}

// Start sets the timer running. With nothing selected it returns
// ErrNoDurationSelected and leaves the state untouched.
func (s *Service) Start(ctx context.Context) (models.TimerState, error) {
	return s.store.UpdateTimerState(ctx, func(st *models.TimerState) (bool, error) {
		if st.SelectedSeconds <= 0 {
			return false, errors.ErrNoDurationSelected
		}
		if st.Running {
			return false, nil
		}
		if st.RemainingSeconds <= 0 {
			st.RemainingSeconds = st.SelectedSeconds
		}
		now := s.now()
		st.Running = true
		st.StartedAt = &now
		return true, nil
	})
}

// Pause stops the clock, keeping the remaining time
func (s *Service) Pause(ctx context.Context) (models.TimerState, error) {
	return s.store.UpdateTimerState(ctx, func(st *models.TimerState) (bool, error) {
		st.Running = false
		return true, nil
	})
}

// Reset stops the clock and reloads the selected duration
func (s *Service) Reset(ctx context.Context) (models.TimerState, error) {
	return s.store.UpdateTimerState(ctx, func(st *models.TimerState) (bool, error) {
		st.Running = false
		st.RemainingSeconds = st.SelectedSeconds
		return true, nil
	})
}

// PreviousCard moves to the previous card, floored at zero. Navigation clears the timer.
func (s *Service) PreviousCard(ctx context.Context) (models.TimerState, error) {
	return s.store.UpdateTimerState(ctx, func(st *models.TimerState) (bool, error) {
		if st.CardIndex > 0 {
			st.CardIndex--
		}
		clearClock(st)
		return true, nil
	})
}

// NextCard moves to the next card. When cardCount is positive the index is
// capped at the last card; otherwise rendering clamps it.
func (s *Service) NextCard(ctx context.Context, cardCount int) (models.TimerState, error) {
	return s.store.UpdateTimerState(ctx, func(st *models.TimerState) (bool, error) {
		st.CardIndex++
		if cardCount > 0 && st.CardIndex > cardCount-1 {
			st.CardIndex = cardCount - 1
		}
		clearClock(st)
		return true, nil
	})
}

// Tick performs one countdown step. The running check and the decrement
// happen in the same update, so a pause landing in between is never lost.
// redraw decides, from the remaining value read before the decrement,
// whether the step should repaint the widget; completion always repaints.
func (s *Service) Tick(ctx context.Context, threshold int, redraw func(remaining int) bool) (models.TimerState, TickResult, error) {
	result := TickStopped
	state, err := s.store.UpdateTimerState(ctx, func(st *models.TimerState) (bool, error) {
		if !st.Running {
			result = TickStopped
			return false, nil
		}
		if st.RemainingSeconds <= threshold {
			st.Running = false
			st.RemainingSeconds = 0
			result = TickCompleted
			return true, nil
		}
		before := st.RemainingSeconds
		st.RemainingSeconds--
		result = TickDecremented
		return redraw != nil && redraw(before), nil
	})
	if err != nil {
		return models.TimerState{}, TickStopped, err
	}
	return state, result, nil
}

// Clear resets the whole timer, including the card index
func (s *Service) Clear(ctx context.Context) (models.TimerState, error) {
	return s.store.UpdateTimerState(ctx, func(st *models.TimerState) (bool, error) {
		st.CardIndex = 0
		clearClock(st)
		return true, nil
	})
}

// KeepPresets clears the clock when the loaded duration is no longer one of
// presets. The card index is kept. It always requests a redraw.
func (s *Service) KeepPresets(ctx context.Context, presets []int) (models.TimerState, error) {
	return s.store.UpdateTimerState(ctx, func(st *models.TimerState) (bool, error) {
		if st.SelectedSeconds > 0 && !slices.Contains(presets, st.SelectedSeconds) {
			clearClock(st)
		}
		return true, nil
	})
}

// RequestRedraw bumps the revision without changing the timer
func (s *Service) RequestRedraw(ctx context.Context) (models.TimerState, error) {
	return s.store.UpdateTimerState(ctx, func(*models.TimerState) (bool, error) {
		return true, nil
	})
}

func clearClock(st *models.TimerState) {
	st.Running = false
	st.RemainingSeconds = 0
	st.SelectedSeconds = 0
	st.StartedAt = nil
}
