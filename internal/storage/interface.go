package storage

import (
	"context"

	"github.com/julianstephens/liftlog/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Exercise cards
	// SaveCard inserts the card when its ID is zero and updates it otherwise.
	// It returns the card's ID.
	SaveCard(models.ExerciseCard) (int64, error)
	GetCard(id int64) (models.ExerciseCard, error)
	// GetAllCards returns every card, newest first.
	GetAllCards() ([]models.ExerciseCard, error)
	DeleteCard(id int64) error

	// Training plans
	// SavePlan inserts or updates the plan. When plan.Active is set, every
	// other plan is deactivated in the same transaction.
	SavePlan(models.TrainingPlan) (int64, error)
	GetPlan(id int64) (models.TrainingPlan, error)
	// GetAllPlans returns every plan, newest first.
	GetAllPlans() ([]models.TrainingPlan, error)
	// GetActivePlan returns errors.ErrNotFound when no plan is active.
	GetActivePlan() (models.TrainingPlan, error)
	// SetActivePlan makes id the only active plan in a single transaction.
	SetActivePlan(id int64) error
	DeletePlan(id int64) error

	// Session logs
	AddSession(models.SessionLog) (int64, error)
	GetSession(id int64) (models.SessionLog, error)
	UpdateSession(models.SessionLog) error
	// GetSessions returns logs for cardID, or all logs when cardID is zero, newest first.
	GetSessions(cardID int64) ([]models.SessionLog, error)

	TimerStore

	// Utils
	GetConfigPath() string
}

// TimerUpdateFunc mutates the timer state in place. Returning redraw=true
// bumps the state revision so widget hosts re-render.
type TimerUpdateFunc func(state *models.TimerState) (redraw bool, err error)

// TimerStore owns the single shared timer record
type TimerStore interface {
	GetTimerState(ctx context.Context) (models.TimerState, error)
	// UpdateTimerState runs fn inside one transaction and persists the result.
	// If fn returns an error nothing is written.
	UpdateTimerState(ctx context.Context, fn TimerUpdateFunc) (models.TimerState, error)
}
