package tasks

import (
	"errors"
	"testing"
)

func TestIsValidStatus(t *testing.T) {
	t.Run("with known statuses", func(t *testing.T) {
		for _, s := range []TaskStatus{StatusTodo, StatusInProgress, StatusBlocked, StatusDone} {
			if !IsValidStatus(s) {
				t.Errorf("%s should be valid", s)
			}
		}
	})

	t.Run("with unknown status", func(t *testing.T) {
		if IsValidStatus("archived") {
			t.Error("should be false")
		}
	})
}

func TestCheckTransition(t *testing.T) {
	t.Run("to blocked without reason", func(t *testing.T) {
		if err := CheckTransition(StatusBlocked, "", 0); !errors.Is(err, ErrBlockReasonMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("to blocked with reason", func(t *testing.T) {
		if err := CheckTransition(StatusBlocked, "waiting for review", 0); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("to in_progress at the WIP limit", func(t *testing.T) {
		if err := CheckTransition(StatusInProgress, "", MaxInProgress); !errors.Is(err, ErrTooManyInProgress) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("to in_progress below the WIP limit", func(t *testing.T) {
		if err := CheckTransition(StatusInProgress, "", MaxInProgress-1); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("to unknown status", func(t *testing.T) {
		if err := CheckTransition("archived", "", 0); !errors.Is(err, ErrUnknownStatus) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
