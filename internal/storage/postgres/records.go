package postgres

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

func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, apperrors.ErrNotFound)
	}
	return err
}

func checkAffected(res sql.Result, what string, id int64) error {
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, apperrors.ErrNotFound)
	}
	return nil
}

// Cards

func scanCard(row rowScanner) (models.ExerciseCard, error) {
	var c models.ExerciseCard
	var timers string
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &timers, &c.CreatedAt); err != nil {
		return models.ExerciseCard{}, err
	}
	var err error
	if c.Timers, err = storage.SplitInts(timers); err != nil {
		return models.ExerciseCard{}, fmt.Errorf("card %d timers: %w", c.ID, err)
	}
	return c, nil
}

func (s *Store) SaveCard(card models.ExerciseCard) (int64, error) {
	if card.ID == 0 {
		if card.CreatedAt.IsZero() {
			card.CreatedAt = time.Now()
		}
		var id int64
		err := s.db.QueryRow(`
			INSERT INTO exercise_cards (name, description, timers, created_at)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			card.Name, card.Description, storage.JoinInts(card.Timers), card.CreatedAt).Scan(&id)
		return id, err
	}

	res, err := s.db.Exec(`
		UPDATE exercise_cards SET name = $1, description = $2, timers = $3
		WHERE id = $4`,
		card.Name, card.Description, storage.JoinInts(card.Timers), card.ID)
	if err != nil {
		return 0, err
	}
	if err := checkAffected(res, "card", card.ID); err != nil {
		return 0, err
	}
	return card.ID, nil
}

func (s *Store) GetCard(id int64) (models.ExerciseCard, error) {
	card, err := scanCard(s.db.QueryRow(`
		SELECT id, name, description, timers, created_at
		FROM exercise_cards WHERE id = $1`, id))
	return card, notFound(err, "card", id)
}

func (s *Store) GetAllCards() ([]models.ExerciseCard, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, timers, created_at
		FROM exercise_cards ORDER BY created_at DESC, id DESC`)
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
	res, err := s.db.Exec("DELETE FROM exercise_cards WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res, "card", id)
}

// Plans

const planColumns = "id, name, card_ids, active, created_at"

func scanPlan(row rowScanner) (models.TrainingPlan, error) {
	var p models.TrainingPlan
	var cardIDs string
	if err := row.Scan(&p.ID, &p.Name, &cardIDs, &p.Active, &p.CreatedAt); err != nil {
		return models.TrainingPlan{}, err
	}
	var err error
	if p.CardIDs, err = storage.SplitIDs(cardIDs); err != nil {
		return models.TrainingPlan{}, fmt.Errorf("plan %d card_ids: %w", p.ID, err)
	}
	return p, nil
}

func (s *Store) SavePlan(plan models.TrainingPlan) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if plan.Active {
		if _, err := tx.Exec("UPDATE training_plans SET active = FALSE WHERE active"); err != nil {
			return 0, fmt.Errorf("failed to clear active plan: %w", err)
		}
	}

	id := plan.ID
	if id == 0 {
		if plan.CreatedAt.IsZero() {
			plan.CreatedAt = time.Now()
		}
		err := tx.QueryRow(`
			INSERT INTO training_plans (name, card_ids, active, created_at)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			plan.Name, storage.JoinIDs(plan.CardIDs), plan.Active, plan.CreatedAt).Scan(&id)
		if err != nil {
			return 0, err
		}
	} else {
		res, err := tx.Exec(`
			UPDATE training_plans SET name = $1, card_ids = $2, active = $3
			WHERE id = $4`,
			plan.Name, storage.JoinIDs(plan.CardIDs), plan.Active, plan.ID)
		if err != nil {
			return 0, err
		}
		if err := checkAffected(res, "plan", plan.ID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetPlan(id int64) (models.TrainingPlan, error) {
	plan, err := scanPlan(s.db.QueryRow("SELECT "+planColumns+" FROM training_plans WHERE id = $1", id))
	return plan, notFound(err, "plan", id)
}

func (s *Store) GetAllPlans() ([]models.TrainingPlan, error) {
	rows, err := s.db.Query("SELECT " + planColumns + " FROM training_plans ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.TrainingPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (s *Store) GetActivePlan() (models.TrainingPlan, error) {
	plan, err := scanPlan(s.db.QueryRow("SELECT " + planColumns + " FROM training_plans WHERE active ORDER BY id DESC LIMIT 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return models.TrainingPlan{}, fmt.Errorf("active plan: %w", apperrors.ErrNotFound)
	}
	return plan, err
}

func (s *Store) SetActivePlan(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE training_plans SET active = FALSE WHERE active"); err != nil {
		return fmt.Errorf("failed to clear active plan: %w", err)
	}
	res, err := tx.Exec("UPDATE training_plans SET active = TRUE WHERE id = $1", id)
	if err != nil {
		return err
	}
	if err := checkAffected(res, "plan", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) DeletePlan(id int64) error {
	res, err := s.db.Exec("DELETE FROM training_plans WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res, "plan", id)
}

// Sessions

const sessionColumns = "id, card_id, started_at, ended_at, completed"

func scanSession(row rowScanner) (models.SessionLog, error) {
	var l models.SessionLog
	var endedAt sql.NullTime
	if err := row.Scan(&l.ID, &l.CardID, &l.StartedAt, &endedAt, &l.Completed); err != nil {
		return models.SessionLog{}, err
	}
	if endedAt.Valid {
		t := endedAt.Time
		l.EndedAt = &t
	}
	return l, nil
}

func (s *Store) AddSession(l models.SessionLog) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO session_logs (card_id, started_at, ended_at, completed)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		l.CardID, l.StartedAt, l.EndedAt, l.Completed).Scan(&id)
	return id, err
}

func (s *Store) GetSession(id int64) (models.SessionLog, error) {
	l, err := scanSession(s.db.QueryRow("SELECT "+sessionColumns+" FROM session_logs WHERE id = $1", id))
	return l, notFound(err, "session", id)
}

func (s *Store) UpdateSession(l models.SessionLog) error {
	res, err := s.db.Exec(`
		UPDATE session_logs SET card_id = $1, started_at = $2, ended_at = $3, completed = $4
		WHERE id = $5`,
		l.CardID, l.StartedAt, l.EndedAt, l.Completed, l.ID)
	if err != nil {
		return err
	}
	return checkAffected(res, "session", l.ID)
}

func (s *Store) GetSessions(cardID int64) ([]models.SessionLog, error) {
	query := "SELECT " + sessionColumns + " FROM session_logs"
	var args []any
	if cardID != 0 {
		query += " WHERE card_id = $1"
		args = append(args, cardID)
	}
	query += " ORDER BY started_at DESC, id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.SessionLog
	for rows.Next() {
		l, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
