package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/models"
)

const sessionColumns = "id, card_id, started_at, ended_at, completed"

func scanSession(row rowScanner) (models.SessionLog, error) {
	var l models.SessionLog
	var startedAt string
	var endedAt sql.NullString
	var completed int
	if err := row.Scan(&l.ID, &l.CardID, &startedAt, &endedAt, &completed); err != nil {
		return models.SessionLog{}, err
	}

	var err error
	if l.StartedAt, err = parseTime(startedAt); err != nil {
		return models.SessionLog{}, fmt.Errorf("session %d started_at: %w", l.ID, err)
	}
	if endedAt.Valid {
		t, err := parseTime(endedAt.String)
		if err != nil {
			return models.SessionLog{}, fmt.Errorf("session %d ended_at: %w", l.ID, err)
		}
		l.EndedAt = &t
	}
	l.Completed = completed != 0
	return l, nil
}

func nullTime(l models.SessionLog) sql.NullString {
	if l.EndedAt == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*l.EndedAt), Valid: true}
}

func (s *Store) AddSession(l models.SessionLog) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO session_logs (card_id, started_at, ended_at, completed)
		VALUES (?, ?, ?, ?)`,
		l.CardID, formatTime(l.StartedAt), nullTime(l), boolToInt(l.Completed))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetSession(id int64) (models.SessionLog, error) {
	row := s.db.QueryRow("SELECT "+sessionColumns+" FROM session_logs WHERE id = ?", id)
	l, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SessionLog{}, fmt.Errorf("session %d: %w", id, apperrors.ErrNotFound)
	}
	return l, err
}

func (s *Store) UpdateSession(l models.SessionLog) error {
	res, err := s.db.Exec(`
		UPDATE session_logs SET card_id = ?, started_at = ?, ended_at = ?, completed = ?
		WHERE id = ?`,
		l.CardID, formatTime(l.StartedAt), nullTime(l), boolToInt(l.Completed), l.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session %d: %w", l.ID, apperrors.ErrNotFound)
	}
	return nil
}

func (s *Store) GetSessions(cardID int64) ([]models.SessionLog, error) {
	query := "SELECT " + sessionColumns + " FROM session_logs"
	var args []any
	if cardID != 0 {
		query += " WHERE card_id = ?"
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
