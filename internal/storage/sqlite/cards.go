package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (models.ExerciseCard, error) {
	var c models.ExerciseCard
	var timers, createdAt string
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &timers, &createdAt); err != nil {
		return models.ExerciseCard{}, err
	}

	var err error
	if c.Timers, err = storage.SplitInts(timers); err != nil {
		return models.ExerciseCard{}, fmt.Errorf("card %d timers: %w", c.ID, err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.ExerciseCard{}, fmt.Errorf("card %d created_at: %w", c.ID, err)
	}
	return c, nil
}

func (s *Store) SaveCard(card models.ExerciseCard) (int64, error) {
	if card.ID == 0 {
		if card.CreatedAt.IsZero() {
			card.CreatedAt = time.Now()
		}
		res, err := s.db.Exec(`
			INSERT INTO exercise_cards (name, description, timers, created_at)
			VALUES (?, ?, ?, ?)`,
			card.Name, card.Description, storage.JoinInts(card.Timers), formatTime(card.CreatedAt))
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	res, err := s.db.Exec(`
		UPDATE exercise_cards SET name = ?, description = ?, timers = ?
		WHERE id = ?`,
		card.Name, card.Description, storage.JoinInts(card.Timers), card.ID)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, fmt.Errorf("card %d: %w", card.ID, apperrors.ErrNotFound)
	}
	return card.ID, nil
}

func (s *Store) GetCard(id int64) (models.ExerciseCard, error) {
	row := s.db.QueryRow(`
		SELECT id, name, description, timers, created_at
		FROM exercise_cards WHERE id = ?`, id)

	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ExerciseCard{}, fmt.Errorf("card %d: %w", id, apperrors.ErrNotFound)
	}
	return card, err
}

func (s *Store) GetAllCards() ([]models.ExerciseCard, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, timers, created_at
		FROM exercise_cards
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.ExerciseCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (s *Store) DeleteCard(id int64) error {
	res, err := s.db.Exec("DELETE FROM exercise_cards WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
