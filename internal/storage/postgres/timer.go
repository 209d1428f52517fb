package postgres

import (
	"context"
	"fmt"

	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
)

func (s *Store) GetTimerState(ctx context.Context) (models.TimerState, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM timer_state")
	if err != nil {
		return models.TimerState{}, err
	}
	defer rows.Close()

	pairs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.TimerState{}, err
		}
		pairs[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.TimerState{}, err
	}
	return storage.TimerStateFromPairs(pairs)
}

func (s *Store) UpdateTimerState(ctx context.Context, fn storage.TimerUpdateFunc) (models.TimerState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.TimerState{}, err
	}
	defer tx.Rollback()

	// Rows may not exist yet, so lock the table rather than SELECT ... FOR UPDATE
	if _, err := tx.ExecContext(ctx, "LOCK TABLE timer_state IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return models.TimerState{}, fmt.Errorf("failed to lock timer state: %w", err)
	}

	rows, err := tx.QueryContext(ctx, "SELECT key, value FROM timer_state")
	if err != nil {
		return models.TimerState{}, err
	}
	pairs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			return models.TimerState{}, err
		}
		pairs[key] = value
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.TimerState{}, err
	}

	current, err := storage.TimerStateFromPairs(pairs)
	if err != nil {
		return models.TimerState{}, err
	}

	next, err := storage.ApplyTimerUpdate(current, fn)
	if err != nil {
		return current, err
	}

	for key, value := range storage.TimerStateToPairs(next) {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO timer_state (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value); err != nil {
			return models.TimerState{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.TimerState{}, err
	}
	return next, nil
}
