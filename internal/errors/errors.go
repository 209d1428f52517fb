package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/liftlog/internal/logger"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")

	// Validation failures. The operation is aborted and nothing is written.
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrTooManyCards       = errors.New("training plan cannot have more than 4 exercise cards")
	ErrDuplicateCard      = errors.New("training plan lists the same exercise card twice")
	ErrUnknownCard        = errors.New("training plan references an unknown exercise card")
	ErrInvalidTimer       = errors.New("timer must be one of 30, 60, 90 or 120 seconds")
	ErrNoDurationSelected = errors.New("no timer duration selected")
	ErrTimerRunning       = errors.New("timer is running")

	// ErrCardInUse is returned when deleting a card still referenced by a training plan
	ErrCardInUse = errors.New("exercise card is used by a training plan")
)

// IsValidation reports whether err is one of the validation sentinels
func IsValidation(err error) bool {
	for _, target := range []error{ErrEmptyName, ErrTooManyCards, ErrDuplicateCard, ErrUnknownCard, ErrInvalidTimer} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		_ = logger.Close()
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
