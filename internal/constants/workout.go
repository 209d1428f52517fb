package constants

import "time"

const (
	// MaxPlanCards is the maximum number of exercise cards a training plan may hold
	MaxPlanCards = 4

	// TimerThreshold is the remaining-seconds value at which a countdown completes
	TimerThreshold = 0

	// DefaultTick is the countdown quantum
	DefaultTick = time.Second

	// Redraw cadence: every Nth tick, and every tick once remaining <= RedrawBelow.
	DefaultRedrawEvery = 5
	DefaultRedrawBelow = 5
)

// TimerPresets are the rest durations (seconds) a card may offer, in display order
var TimerPresets = []int{30, 60, 90, 120}

// IsTimerPreset reports whether seconds is one of TimerPresets
func IsTimerPreset(seconds int) bool {
	for _, p := range TimerPresets {
		if p == seconds {
			return true
		}
	}
	return false
}
