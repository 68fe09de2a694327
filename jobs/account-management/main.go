package main

import (
	"log/slog"
	"time"
)

func main() {
	slog.Info("Starting account management job")
	start := time.Now()

	if conf.RunTasks.CleanUpUnverifiedAccounts {
		cleanUpUnverifiedAccounts()
	}

	slog.Info("Account management jobs completed", slog.Duration("duration", time.Since(start)))
}

// cleanUpUnverifiedAccounts removes accounts that never passed the
// verification gate. Such accounts cannot own tasks, so no task cleanup
// is needed here.
func cleanUpUnverifiedAccounts() {
	slog.Debug("Start cleaning up unverified accounts")

	createdBefore := time.Now().Add(-conf.AccountManagementConfig.DeleteUnverifiedAccountsAfter).Unix()
	count, err := accountDBService.DeleteUnverifiedAccounts(createdBefore)
	if err != nil {
		slog.Error("Error cleaning up unverified accounts", slog.String("error", err.Error()))
		return
	}

	slog.Info("Clean up unverified accounts finished", slog.Int64("count", count))
}
