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

const planColumns = "id, name, card_ids, active, created_at"

func scanPlan(row rowScanner) (models.TrainingPlan, error) {
	var p models.TrainingPlan
	var cardIDs, createdAt string
	var active int
	if err := row.Scan(&p.ID, &p.Name, &cardIDs, &active, &createdAt); err != nil {
		return models.TrainingPlan{}, err
	}

	var err error
	if p.CardIDs, err = storage.SplitIDs(cardIDs); err != nil {
		return models.TrainingPlan{}, fmt.Errorf("plan %d card_ids: %w", p.ID, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.TrainingPlan{}, fmt.Errorf("plan %d created_at: %w", p.ID, err)
	}
	p.Active = active != 0
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) SavePlan(plan models.TrainingPlan) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if plan.Active {
		if _, err := tx.Exec("UPDATE training_plans SET active = 0 WHERE active = 1"); err != nil {
			return 0, fmt.Errorf("failed to clear active plan: %w", err)
		}
	}

	id := plan.ID
	if id == 0 {
		if plan.CreatedAt.IsZero() {
			plan.CreatedAt = time.Now()
		}
		res, err := tx.Exec(`
			INSERT INTO training_plans (name, card_ids, active, created_at)
			VALUES (?, ?, ?, ?)`,
			plan.Name, storage.JoinIDs(plan.CardIDs), boolToInt(plan.Active), formatTime(plan.CreatedAt))
		if err != nil {
			return 0, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	} else {
		res, err := tx.Exec(`
			UPDATE training_plans SET name = ?, card_ids = ?, active = ?
			WHERE id = ?`,
			plan.Name, storage.JoinIDs(plan.CardIDs), boolToInt(plan.Active), plan.ID)
		if err != nil {
			return 0, err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return 0, fmt.Errorf("plan %d: %w", plan.ID, apperrors.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetPlan(id int64) (models.TrainingPlan, error) {
	row := s.db.QueryRow("SELECT "+planColumns+" FROM training_plans WHERE id = ?", id)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TrainingPlan{}, fmt.Errorf("plan %d: %w", id, apperrors.ErrNotFound)
	}
	return plan, err
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
	row := s.db.QueryRow("SELECT " + planColumns + " FROM training_plans WHERE active = 1 ORDER BY id DESC LIMIT 1")
	plan, err := scanPlan(row)
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

	if _, err := tx.Exec("UPDATE training_plans SET active = 0 WHERE active = 1"); err != nil {
		return fmt.Errorf("failed to clear active plan: %w", err)
	}

	res, err := tx.Exec("UPDATE training_plans SET active = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan %d: %w", id, apperrors.ErrNotFound)
	}

	return tx.Commit()
}

func (s *Store) DeletePlan(id int64) error {
	res, err := s.db.Exec("DELETE FROM training_plans WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
