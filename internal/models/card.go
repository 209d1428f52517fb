package models

import (
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/errors"
)

// ExerciseCard is a single trackable exercise with optional preset rest timers
type ExerciseCard struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Timers      []int     `json:"timers"` // rest durations in seconds, subset of constants.TimerPresets
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the card name and that every timer is a known preset
func (c *ExerciseCard) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.ErrEmptyName
	}
	for _, t := range c.Timers {
		if !constants.IsTimerPreset(t) {
			return errors.ErrInvalidTimer
		}
	}
	return nil
}

// Normalize trims text fields and sorts and deduplicates timers
func (c *ExerciseCard) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)

	seen := make(map[int]bool, len(c.Timers))
	timers := make([]int, 0, len(c.Timers))
	for _, t := range c.Timers {
		if seen[t] {
			continue
		}
		seen[t] = true
		timers = append(timers, t)
	}
	sort.Ints(timers)
	c.Timers = timers
}

// HasTimers reports whether the card offers any rest timer
func (c ExerciseCard) HasTimers() bool {
	return len(c.Timers) > 0
}
