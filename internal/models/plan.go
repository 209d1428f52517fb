package models

import (
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/errors"
)

// TrainingPlan is an ordered bundle of up to four exercise cards.
// At most one plan is Active at a time.
type TrainingPlan struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CardIDs   []int64   `json:"card_ids"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate enforces the plan-level rules that do not need the store
func (p *TrainingPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.ErrEmptyName
	}
	if len(p.CardIDs) > constants.MaxPlanCards {
		return errors.ErrTooManyCards
	}
	seen := make(map[int64]bool, len(p.CardIDs))
	for _, id := range p.CardIDs {
		if seen[id] {
			return errors.ErrDuplicateCard
		}
		seen[id] = true
	}
	return nil
}

// References reports whether the plan lists cardID
func (p TrainingPlan) References(cardID int64) bool {
	for _, id := range p.CardIDs {
		if id == cardID {
			return true
		}
	}
	return false
}
