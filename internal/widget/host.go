package widget

import (
	"context"
	"fmt"

	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/timer"
)

// PlanSource is the slice of the repository the widget reads
type PlanSource interface {
	GetActivePlan(ctx context.Context) (*models.TrainingPlan, error)
	PlanCards(ctx context.Context, plan models.TrainingPlan) ([]models.ExerciseCard, error)
}

// Scheduler starts and stops the background countdown
type Scheduler interface {
	Enqueue(name string) (string, error)
	Cancel(name string) error
}

// Host loads widget input and applies tap actions
type Host struct {
	plans      PlanSource
	timers     *timer.Service
	scheduler  Scheduler
	workerName string
}

func NewHost(plans PlanSource, timers *timer.Service, scheduler Scheduler, workerName string) *Host {
	return &Host{plans: plans, timers: timers, scheduler: scheduler, workerName: workerName}
}

// Load builds the render input. Any repository failure degrades to the
// empty view; a timer failure degrades to a stopped zero timer.
func (h *Host) Load(ctx context.Context) (Input, models.TimerState) {
	var in Input

	state, err := h.timers.State(ctx)
	if err != nil {
		logger.Warn("Failed to read timer state for widget", "error", err)
		state = models.TimerState{}
	}
	in.CardIndex = state.CardIndex
	in.Running = state.Running
	in.RemainingSeconds = state.RemainingSeconds
	in.SelectedSeconds = state.SelectedSeconds

	plan, err := h.plans.GetActivePlan(ctx)
	if err != nil {
		logger.Warn("Failed to load active plan for widget", "error", err)
		return in, state
	}
	if plan == nil {
		return in, state
	}

	cards, err := h.plans.PlanCards(ctx, *plan)
	if err != nil {
		logger.Warn("Failed to load plan cards for widget", "plan", plan.ID, "error", err)
		return in, state
	}

	in.Plan = plan
	in.Cards = cards
	return in, state
}

// View loads and renders in one step
func (h *Host) View(ctx context.Context) View {
	in, _ := h.Load(ctx)
	return Render(in)
}

// Dispatch applies a tap. Start enqueues the countdown worker with replace
// semantics; pause, reset and navigation cancel it.
func (h *Host) Dispatch(ctx context.Context, action Action) (models.TimerState, error) {
	var (
		state models.TimerState
		err   error
	)

	switch action.Kind {
	case ActionSelectDuration:
		state, err = h.timers.SelectDuration(ctx, action.Seconds)
	case ActionStart:
		state, err = h.timers.Start(ctx)
		if err == nil && state.Running {
			if _, qerr := h.scheduler.Enqueue(h.workerName); qerr != nil {
				// the clock must not claim to run without a worker behind it
				if _, perr := h.timers.Pause(ctx); perr != nil {
					logger.Error("Failed to pause timer after worker start failure", "error", perr)
				}
				return state, fmt.Errorf("failed to start countdown: %w", qerr)
			}
		}
	case ActionPause:
		state, err = h.timers.Pause(ctx)
		h.cancelWorker()
	case ActionReset:
		state, err = h.timers.Reset(ctx)
		h.cancelWorker()
	case ActionPreviousCard:
		state, err = h.timers.PreviousCard(ctx)
		h.cancelWorker()
	case ActionNextCard:
		count := 0
		if in, _ := h.Load(ctx); in.Plan != nil {
			count = len(in.Cards)
		}
		state, err = h.timers.NextCard(ctx, count)
		h.cancelWorker()
	default:
		return models.TimerState{}, fmt.Errorf("unknown widget action %q", action.Kind)
	}

	if err != nil {
		return state, err
	}
	logger.Debug("Widget action applied", "action", action.String(), "revision", state.Revision)
	return state, nil
}

// StopCountdown cancels the countdown worker. Used when the timer was reset
// behind the widget's back, e.g. by a plan change.
func (h *Host) StopCountdown() {
	h.cancelWorker()
}

func (h *Host) cancelWorker() {
	if err := h.scheduler.Cancel(h.workerName); err != nil {
		logger.Warn("Failed to cancel countdown worker", "name", h.workerName, "error", err)
	}
}
