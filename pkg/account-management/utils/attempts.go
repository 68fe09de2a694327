package utils

import "time"

// HasMoreAttemptsRecently counts timestamps (unix seconds) inside the
// window and reports whether the limit is reached.
func HasMoreAttemptsRecently(attempts []int64, limit int, windowSec int64) bool {
	cutoff := time.Now().Unix() - windowSec

	count := 0
	for _, ts := range attempts {
		if ts > cutoff {
			count += 1
		}
	}
	return count >= limit
}

func RemoveAttemptsOlderThan(attempts []int64, maxAgeSec int64) []int64 {
	cutoff := time.Now().Unix() - maxAgeSec

	kept := []int64{}
	for _, ts := range attempts {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	return kept
}
