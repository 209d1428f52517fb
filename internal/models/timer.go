package models

import (
	"fmt"
	"time"
)

// TimerState is the live countdown shown by the widget. It is a single record
// shared by the CLI, the widget host and the background worker.
type TimerState struct {
	Running          bool       `json:"running"`
	RemainingSeconds int        `json:"remaining_seconds"`
	SelectedSeconds  int        `json:"selected_seconds"`
	CardIndex        int        `json:"current_card_index"`
	StartedAt        *time.Time `json:"timer_start_time,omitempty"` // informational only
	Revision         int64      `json:"revision"`                   // bumped on every redraw request
}

// Clamp keeps RemainingSeconds within [0, SelectedSeconds] and CardIndex non-negative
func (t *TimerState) Clamp() {
	if t.SelectedSeconds < 0 {
		t.SelectedSeconds = 0
	}
	if t.RemainingSeconds < 0 {
		t.RemainingSeconds = 0
	}
	if t.RemainingSeconds > t.SelectedSeconds {
		t.RemainingSeconds = t.SelectedSeconds
	}
	if t.CardIndex < 0 {
		t.CardIndex = 0
	}
}

// FormatClock renders seconds as MM:SS
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
