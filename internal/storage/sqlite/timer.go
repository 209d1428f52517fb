package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func readTimerState(ctx context.Context, q querier) (models.TimerState, error) {
	rows, err := q.QueryContext(ctx, "SELECT key, value FROM timer_state")
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

func (s *Store) GetTimerState(ctx context.Context) (models.TimerState, error) {
	return readTimerState(ctx, s.db)
}

func (s *Store) UpdateTimerState(ctx context.Context, fn storage.TimerUpdateFunc) (models.TimerState, error) {
	// BEGIN IMMEDIATE takes the write lock before the read
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return models.TimerState{}, err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return models.TimerState{}, fmt.Errorf("failed to lock timer state: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	current, err := readTimerState(ctx, conn)
	if err != nil {
		return models.TimerState{}, err
	}

	next, err := storage.ApplyTimerUpdate(current, fn)
	if err != nil {
		return current, err
	}

	for key, value := range storage.TimerStateToPairs(next) {
		if _, err := conn.ExecContext(ctx, "INSERT OR REPLACE INTO timer_state (key, value) VALUES (?, ?)", key, value); err != nil {
			return models.TimerState{}, err
		}
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return models.TimerState{}, err
	}
	committed = true
	return next, nil
}
