package tasks

import "errors"

var (
	ErrUnknownStatus      = errors.New("unknown task status")
	ErrBlockReasonMissing = errors.New("moving a task to blocked requires a reason")
	ErrTooManyInProgress  = errors.New("too many tasks in progress")
)

func IsValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// CheckTransition validates a status change request. inProgressCount is the
// owner's current number of in_progress tasks, excluding the task that is
// being moved.
func CheckTransition(target TaskStatus, blockReason string, inProgressCount int64) error {
	if !IsValidStatus(target) {
		return ErrUnknownStatus
	}
	if target == StatusBlocked && blockReason == "" {
		return ErrBlockReasonMissing
	}
	if target == StatusInProgress && inProgressCount >= MaxInProgress {
		return ErrTooManyInProgress
	}
	return nil
}
