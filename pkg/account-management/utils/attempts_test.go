package utils

import (
	"testing"
	"time"
)

func TestHasMoreAttemptsRecently(t *testing.T) {
	now := time.Now().Unix()

	t.Run("below the limit", func(t *testing.T) {
		attempts := []int64{now - 10, now - 20}
		if HasMoreAttemptsRecently(attempts, 3, 60) {
			t.Error("should be false")
		}
	})

	t.Run("limit reached", func(t *testing.T) {
		attempts := []int64{now - 10, now - 20, now - 30}
		if !HasMoreAttemptsRecently(attempts, 3, 60) {
			t.Error("should be true")
		}
	})

	t.Run("old attempts do not count", func(t *testing.T) {
		attempts := []int64{now - 10, now - 120, now - 130}
		if HasMoreAttemptsRecently(attempts, 3, 60) {
			t.Error("should be false")
		}
	})
}

func TestRemoveAttemptsOlderThan(t *testing.T) {
	now := time.Now().Unix()

	t.Run("drops stale entries", func(t *testing.T) {
		attempts := []int64{now - 10, now - 120, now - 20, now - 130}
		kept := RemoveAttemptsOlderThan(attempts, 60)
		if len(kept) != 2 {
			t.Fatalf("unexpected number of kept attempts: %d", len(kept))
		}
		for _, ts := range kept {
			if ts <= now-60 {
				t.Errorf("stale attempt kept: %d", ts)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		kept := RemoveAttemptsOlderThan(nil, 60)
		if len(kept) != 0 {
			t.Errorf("unexpected kept attempts: %v", kept)
		}
	})
}
