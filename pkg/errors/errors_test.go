package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", ErrNotFound, IsNotFound},
		{"validation", ErrValidation, IsValidation},
		{"conflict", ErrConflict, IsConflict},
		{"invalid state", ErrInvalidState, IsInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Error("helper should match its own sentinel")
			}

			wrapped := fmt.Errorf("loading contact abc: %w", tt.err)
			if !tt.check(wrapped) {
				t.Error("helper should match through wrapping")
			}

			if tt.check(errors.New("unrelated")) {
				t.Error("helper should not match unrelated errors")
			}
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if IsNotFound(ErrValidation) || IsValidation(ErrNotFound) ||
		IsConflict(ErrInvalidState) || IsInvalidState(ErrConflict) {
		t.Error("sentinels must not match each other")
	}
}
