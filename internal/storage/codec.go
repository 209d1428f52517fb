package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

// JoinInts encodes timers as a comma separated list
func JoinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// SplitInts decodes a comma separated list written by JoinInts
func SplitInts(s string) ([]int, error) {
	values := []int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", part, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// JoinIDs encodes card ids as a comma separated list, preserving order
func JoinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// SplitIDs decodes a comma separated list written by JoinIDs
func SplitIDs(s string) ([]int64, error) {
	ids := []int64{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// TimerStateToPairs flattens the state into the timer_state key/value rows
func TimerStateToPairs(state models.TimerState) map[string]string {
	startedAt := "0"
	if state.StartedAt != nil {
		startedAt = strconv.FormatInt(state.StartedAt.UnixMilli(), 10)
	}
	return map[string]string{
		constants.KeyRunning:          strconv.FormatBool(state.Running),
		constants.KeyRemainingSeconds: strconv.Itoa(state.RemainingSeconds),
		constants.KeySelectedSeconds:  strconv.Itoa(state.SelectedSeconds),
		constants.KeyCurrentCardIndex: strconv.Itoa(state.CardIndex),
		constants.KeyTimerStartTime:   startedAt,
		constants.KeyRevision:         strconv.FormatInt(state.Revision, 10),
	}
}

// TimerStateFromPairs rebuilds the state from timer_state rows.
// Missing keys take their zero value.
func TimerStateFromPairs(pairs map[string]string) (models.TimerState, error) {
	var state models.TimerState
	var err error

	for key, value := range pairs {
		switch key {
		case constants.KeyRunning:
			state.Running = value == "true"
		case constants.KeyRemainingSeconds:
			state.RemainingSeconds, err = strconv.Atoi(value)
		case constants.KeySelectedSeconds:
			state.SelectedSeconds, err = strconv.Atoi(value)
		case constants.KeyCurrentCardIndex:
			state.CardIndex, err = strconv.Atoi(value)
		case constants.KeyTimerStartTime:
			var ms int64
			ms, err = strconv.ParseInt(value, 10, 64)
			if err == nil && ms > 0 {
				t := time.UnixMilli(ms)
				state.StartedAt = &t
			}
		case constants.KeyRevision:
			state.Revision, err = strconv.ParseInt(value, 10, 64)
		}
		if err != nil {
			return models.TimerState{}, fmt.Errorf("parsing %s: %w", key, err)
		}
	}

	return state, nil
}

// ApplyTimerUpdate runs fn against a copy of current, clamps the result and
// bumps the revision when a redraw was requested
func ApplyTimerUpdate(current models.TimerState, fn TimerUpdateFunc) (models.TimerState, error) {
	next := current
	redraw, err := fn(&next)
	if err != nil {
		return current, err
	}
	next.Clamp()
	next.Revision = current.Revision
	if redraw {
		next.Revision++
	}
	return next, nil
}
