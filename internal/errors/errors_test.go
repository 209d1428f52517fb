package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "sentinel error",
			err:      ErrCardInUse,
			expected: "Error: exercise card is used by a training plan",
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("delete card 3: %w", ErrNotFound),
			expected: "Error: delete card 3: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("card %d not found", 7)
	if got != "Error: card 7 not found" {
		t.Errorf("Formatf = %q", got)
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrEmptyName, true},
		{fmt.Errorf("save plan: %w", ErrTooManyCards), true},
		{ErrInvalidTimer, true},
		{ErrCardInUse, false},
		{ErrNotFound, false},
		{errors.New("disk full"), false},
	}

	for _, tt := range tests {
		if got := IsValidation(tt.err); got != tt.want {
			t.Errorf("IsValidation(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
