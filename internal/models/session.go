package models

import (
	"fmt"
	"time"
)

// SessionLog records one performance of an exercise card
type SessionLog struct {
	ID        int64      `json:"id"`
	CardID    int64      `json:"card_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Completed bool       `json:"completed"`
}

// Duration returns the elapsed time of a finished session, or zero while open
func (s SessionLog) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Status summarises the session for list output
func (s SessionLog) Status() string {
	switch {
	case s.EndedAt == nil:
		return "in progress"
	case s.Completed:
		return fmt.Sprintf("completed in %s", s.Duration().Round(time.Second))
	default:
		return fmt.Sprintf("stopped after %s", s.Duration().Round(time.Second))
	}
}
