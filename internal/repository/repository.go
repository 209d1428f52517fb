// Package repository is the single entry point the CLI, the TUI and the
// widget use for exercise cards, training plans and session logs.
package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/timer"
)

type Repository struct {
	store  storage.Provider
	timers *timer.Service
	now    func() time.Time
}

func New(store storage.Provider) *Repository {
	return &Repository{
		store:  store,
		timers: timer.New(store),
		now:    time.Now,
	}
}

// Cards

// SaveCard validates and normalizes the card, then inserts or updates it
func (r *Repository) SaveCard(ctx context.Context, card models.ExerciseCard) (models.ExerciseCard, error) {
	card.Normalize()
	if err := card.Validate(); err != nil {
		return models.ExerciseCard{}, err
	}
	if card.ID == 0 && card.CreatedAt.IsZero() {
		card.CreatedAt = r.now()
	}

	id, err := r.store.SaveCard(card)
	if err != nil {
		return models.ExerciseCard{}, fmt.Errorf("failed to save card: %w", err)
	}
	card.ID = id
	r.syncTimerWithCard(ctx, card)
	logger.Debug("Saved exercise card", "id", id, "name", card.Name)
	return card, nil
}

func (r *Repository) GetCard(ctx context.Context, id int64) (models.ExerciseCard, error) {
	return r.store.GetCard(id)
}

// ListCards returns every card, newest first
func (r *Repository) ListCards(ctx context.Context) ([]models.ExerciseCard, error) {
	return r.store.GetAllCards()
}

// DeleteCard removes a card unless some training plan still lists it
func (r *Repository) DeleteCard(ctx context.Context, id int64) error {
	plans, err := r.store.GetAllPlans()
	if err != nil {
		return fmt.Errorf("failed to check plan references: %w", err)
	}
	for _, p := range plans {
		if p.References(id) {
			return fmt.Errorf("%w: %q", apperrors.ErrCardInUse, p.Name)
		}
	}
	if err := r.store.DeleteCard(id); err != nil {
		return err
	}
	r.notifyWidgets(ctx)
	return nil
}

// Plans

// SavePlan validates the plan and stores it. Saving an active plan makes it
// the only active one in the same transaction.
func (r *Repository) SavePlan(ctx context.Context, plan models.TrainingPlan) (models.TrainingPlan, error) {
	plan.Name = strings.TrimSpace(plan.Name)
	if err := plan.Validate(); err != nil {
		return models.TrainingPlan{}, err
	}
	for _, id := range plan.CardIDs {
		if _, err := r.store.GetCard(id); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return models.TrainingPlan{}, fmt.Errorf("%w: %d", apperrors.ErrUnknownCard, id)
			}
			return models.TrainingPlan{}, err
		}
	}

	previous, hadActive, err := r.activePlan()
	if err != nil {
		return models.TrainingPlan{}, err
	}

	if plan.ID == 0 && plan.CreatedAt.IsZero() {
		plan.CreatedAt = r.now()
	}
	id, err := r.store.SavePlan(plan)
	if err != nil {
		return models.TrainingPlan{}, fmt.Errorf("failed to save plan: %w", err)
	}
	plan.ID = id

	activeChanged := plan.Active && (!hadActive || previous.ID != id || !slices.Equal(previous.CardIDs, plan.CardIDs))
	deactivated := !plan.Active && hadActive && previous.ID == id
	if activeChanged || deactivated {
		r.resetTimer(ctx)
	} else {
		r.notifyWidgets(ctx)
	}

	logger.Debug("Saved training plan", "id", id, "name", plan.Name, "active", plan.Active)
	return plan, nil
}

// SetActivePlan makes id the only active plan and resets the timer
func (r *Repository) SetActivePlan(ctx context.Context, id int64) error {
	if err := r.store.SetActivePlan(id); err != nil {
		return err
	}
	r.resetTimer(ctx)
	return nil
}

func (r *Repository) GetPlan(ctx context.Context, id int64) (models.TrainingPlan, error) {
	return r.store.GetPlan(id)
}

// GetActivePlan returns the active plan, or nil when there is none
func (r *Repository) GetActivePlan(ctx context.Context) (*models.TrainingPlan, error) {
	plan, ok, err := r.activePlan()
	if err != nil || !ok {
		return nil, err
	}
	return &plan, nil
}

// ListPlans returns every plan, newest first
func (r *Repository) ListPlans(ctx context.Context) ([]models.TrainingPlan, error) {
	return r.store.GetAllPlans()
}

func (r *Repository) DeletePlan(ctx context.Context, id int64) error {
	plan, err := r.store.GetPlan(id)
	if err != nil {
		return err
	}
	if err := r.store.DeletePlan(id); err != nil {
		return err
	}
	if plan.Active {
		r.resetTimer(ctx)
	} else {
		r.notifyWidgets(ctx)
	}
	return nil
}

// PlanCards resolves the plan's card ids in plan order. Ids that no longer
// resolve are skipped.
func (r *Repository) PlanCards(ctx context.Context, plan models.TrainingPlan) ([]models.ExerciseCard, error) {
	cards := make([]models.ExerciseCard, 0, len(plan.CardIDs))
	for _, id := range plan.CardIDs {
		card, err := r.store.GetCard(id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Training plan references a missing card", "plan", plan.ID, "card", id)
				continue
			}
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// CardAt returns the active plan's card at index, clamped into range.
// It returns ErrNotFound when there is no active plan or it has no cards.
func (r *Repository) CardAt(ctx context.Context, index int) (models.ExerciseCard, error) {
	plan, ok, err := r.activePlan()
	if err != nil {
		return models.ExerciseCard{}, err
	}
	if !ok {
		return models.ExerciseCard{}, fmt.Errorf("active plan: %w", apperrors.ErrNotFound)
	}
	cards, err := r.PlanCards(ctx, plan)
	if err != nil {
		return models.ExerciseCard{}, err
	}
	if len(cards) == 0 {
		return models.ExerciseCard{}, fmt.Errorf("plan %d has no cards: %w", plan.ID, apperrors.ErrNotFound)
	}
	index = max(0, min(index, len(cards)-1))
	return cards[index], nil
}

// Sessions

// StartSession opens a session log for the card
func (r *Repository) StartSession(ctx context.Context, cardID int64) (models.SessionLog, error) {
	if _, err := r.store.GetCard(cardID); err != nil {
		return models.SessionLog{}, err
	}
	l := models.SessionLog{CardID: cardID, StartedAt: r.now()}
	id, err := r.store.AddSession(l)
	if err != nil {
		return models.SessionLog{}, fmt.Errorf("failed to start session: %w", err)
	}
	l.ID = id
	return l, nil
}

// FinishSession closes an open session log
func (r *Repository) FinishSession(ctx context.Context, id int64, completed bool) (models.SessionLog, error) {
	l, err := r.store.GetSession(id)
	if err != nil {
		return models.SessionLog{}, err
	}
	if l.EndedAt != nil {
		return models.SessionLog{}, fmt.Errorf("session %d already finished", id)
	}
	end := r.now()
	l.EndedAt = &end
	l.Completed = completed
	if err := r.store.UpdateSession(l); err != nil {
		return models.SessionLog{}, fmt.Errorf("failed to finish session: %w", err)
	}
	return l, nil
}

// ListSessions returns session logs for cardID, or all of them when cardID is zero
func (r *Repository) ListSessions(ctx context.Context, cardID int64) ([]models.SessionLog, error) {
	return r.store.GetSessions(cardID)
}

// RecordCompletedSession stores a finished, completed session in one write
func (r *Repository) RecordCompletedSession(ctx context.Context, cardID int64, start, end time.Time) (models.SessionLog, error) {
	l := models.SessionLog{CardID: cardID, StartedAt: start, EndedAt: &end, Completed: true}
	id, err := r.store.AddSession(l)
	if err != nil {
		return models.SessionLog{}, fmt.Errorf("failed to record session: %w", err)
	}
	l.ID = id
	return l, nil
}

func (r *Repository) activePlan() (models.TrainingPlan, bool, error) {
	plan, err := r.store.GetActivePlan()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.TrainingPlan{}, false, nil
		}
		return models.TrainingPlan{}, false, err
	}
	return plan, true, nil
}

// resetTimer clears the timer after the active plan changed. A running
// countdown sees running=false on its next tick and stops.
func (r *Repository) resetTimer(ctx context.Context) {
	if _, err := r.timers.Clear(ctx); err != nil {
		logger.Warn("Failed to reset timer after plan change", "error", err)
	}
}

// syncTimerWithCard requests a redraw after a card changed. When the card is
// the one the widget shows, a loaded duration it no longer offers is cleared.
func (r *Repository) syncTimerWithCard(ctx context.Context, card models.ExerciseCard) {
	state, err := r.timers.State(ctx)
	if err != nil {
		logger.Warn("Failed to read timer state after card change", "error", err)
		r.notifyWidgets(ctx)
		return
	}
	current, err := r.CardAt(ctx, state.CardIndex)
	if err != nil || current.ID != card.ID {
		r.notifyWidgets(ctx)
		return
	}
	if _, err := r.timers.KeepPresets(ctx, card.Timers); err != nil {
		logger.Warn("Failed to sync timer with edited card", "card", card.ID, "error", err)
	}
}

// notifyWidgets asks widget hosts to re-render after card or plan data changed
func (r *Repository) notifyWidgets(ctx context.Context) {
	if _, err := r.timers.RequestRedraw(ctx); err != nil {
		logger.Warn("Failed to request widget redraw", "error", err)
	}
}
